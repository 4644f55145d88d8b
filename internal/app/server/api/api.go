// Эндпоинты сервера:
//
//	GET    /api/health                        # Проверка доступности (публичный)
//	POST   /api/auth/register                 # Регистрация (публичный)
//	POST   /api/auth/login                    # Логин (публичный)
//	POST   /api/auth/logout                   # Завершение сессии (auth)
//	GET    /api/auth/profile                  # Профиль (auth)
//	GET    /api/notifications                 # Список уведомлений (auth)
//	GET    /api/notifications-stats           # Статистика (auth)
//	PUT    /api/notifications/{id}/{action}   # mark-read|mark-unread|archive|unarchive (auth)
//	PUT    /api/notifications/mark-all-read   # (auth)
//	DELETE /api/notifications/{id}            # (auth)
//	DELETE /api/notifications/bulk-delete     # {ids} (auth)
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/exp/slog"

	"medsync/internal/app/server/api/http/health"
	"medsync/internal/app/server/api/http/middleware"
	"medsync/internal/app/server/api/http/middleware/auth"
	"medsync/internal/app/server/api/http/middleware/logger"
	notificationAPI "medsync/internal/app/server/api/http/notification"
	userAPI "medsync/internal/app/server/api/http/user"
	"medsync/internal/app/server/config"
	"medsync/internal/domain/notification"
	"medsync/internal/domain/session"
	"medsync/internal/domain/user"
)

const authPrefix = "/api/auth/"

type Services struct {
	Users         user.Servicer
	Sessions      session.Servicer
	Notifications notification.Servicer
	Seeder        userAPI.Seeder
}

type Handlers struct {
	Health       *health.Handler
	User         *userAPI.Handler
	Notification *notificationAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(cfg config.Server, services Services, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.AuthRateLimit > 0 {
		mux.Use(limitAuth(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute)))
	}

	humaConfig := huma.DefaultConfig("MedSync API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(API, services, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Notification.SetupRoutes(API)

	return mux
}

func handlers(API huma.API, services Services, log *slog.Logger) *Handlers {
	authMW := auth.New(API, services.Sessions, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	healthHandler := health.NewHandler(log, middlewares.GetAllAndClear())

	public := middlewares.Add(loggerMW.Middleware()).GetAllAndClear()
	protected := middlewares.Add(loggerMW.Middleware(), authMW.Middleware()).GetAllAndClear()
	userHandler := userAPI.NewHandler(services.Users, services.Sessions, services.Seeder, log, public, protected)

	middlewares.Add(loggerMW.Middleware(), authMW.Middleware())
	notificationHandler := notificationAPI.NewHandler(services.Notifications, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:       healthHandler,
		User:         userHandler,
		Notification: notificationHandler,
	}
}

// limitAuth применяет ограничитель только к эндпоинтам аутентификации
func limitAuth(limiter func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, authPrefix) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
