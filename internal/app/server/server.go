package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"medsync/internal/app/server/api"
	"medsync/internal/app/server/config"
	"medsync/internal/domain/notification"
	"medsync/internal/domain/session"
	"medsync/internal/domain/user"
	"medsync/internal/infrastructure/storage/memory"
	"medsync/internal/infrastructure/storage/postgres"
)

type repositories struct {
	users         user.Repository
	sessions      session.Repository
	notifications notification.Repository
	close         func() error
}

// App - сервер с выбранным хранилищем и сервисами
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	handler http.Handler
	close   func() error
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	users := user.NewService(repos.users, user.NewPasswordValidator(cfg.Users.StrictPassword), log)
	sessions := session.NewService(repos.sessions, cfg.Session.TTL, log)
	notifications := notification.NewService(repos.notifications, log)

	if cfg.Users.SeedDemo {
		if err := seedDemo(ctx, users, notifications, log); err != nil {
			_ = repos.close()
			return nil, err
		}
	}

	handler := api.New(cfg.Server, api.Services{
		Users:         users,
		Sessions:      sessions,
		Notifications: notifications,
		Seeder:        notifications,
	}, log)

	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		close:   repos.close,
	}, nil
}

func openRepositories(ctx context.Context, cfg *config.Config, log *slog.Logger) (*repositories, error) {
	switch cfg.DB.Driver {
	case config.StoragePostgres:
		storage, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		return &repositories{
			users:         postgres.NewUserRepository(storage, log),
			sessions:      postgres.NewSessionRepository(storage, log),
			notifications: postgres.NewNotificationRepository(storage, log),
			close:         storage.Close,
		}, nil
	default:
		return &repositories{
			users:         memory.NewUserRepository(),
			sessions:      memory.NewSessionRepository(),
			notifications: memory.NewNotificationRepository(),
			close:         func() error { return nil },
		}, nil
	}
}

func seedDemo(ctx context.Context, users *user.Service, notifications *notification.Service, log *slog.Logger) error {
	created, err := users.Seed(ctx, user.DemoAccounts)
	if err != nil {
		return fmt.Errorf("seed demo users: %w", err)
	}
	for _, u := range created {
		if err := notifications.Seed(ctx, u.ID); err != nil {
			return fmt.Errorf("seed notifications: %w", err)
		}
	}
	if len(created) > 0 {
		log.Info("demo accounts seeded", "count", len(created))
	}
	return nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run обслуживает запросы до отмены ctx, затем корректно завершает сервер
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.RunAddress,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", "address", srv.Addr, "storage", a.cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.close()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.log.Info("server stopped")
	return nil
}
