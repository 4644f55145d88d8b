package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"medsync/internal/domain/session"
)

type Auth struct {
	api     huma.API
	session session.Servicer
	log     *slog.Logger
}

func New(api huma.API, session session.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		api:     api,
		session: session,
		log:     log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const (
	UserIDKey contextKey = "userID"
	TokenKey  contextKey = "token"
)

// Middleware проверяет Bearer-токен и кладет id пользователя в контекст
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.log.Debug("missing bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx, "missing bearer token")
			return
		}

		// Валидируем токен
		userID, err := a.session.Validate(ctx.Context(), token)
		if err != nil {
			a.log.Debug("token rejected", "error", err)
			a.unauthorized(ctx, "invalid or expired token")
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		newCtx = context.WithValue(newCtx, TokenKey, token)

		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) unauthorized(ctx huma.Context, msg string) {
	if err := huma.WriteErr(a.api, ctx, http.StatusUnauthorized, msg); err != nil {
		a.log.Error("write error response", "error", err)
	}
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// WithUserID кладет пользователя и токен в контекст (для тестов обработчиков)
func WithUserID(ctx context.Context, userID, token string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, TokenKey, token)
}
