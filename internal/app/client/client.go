package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"

	"golang.org/x/exp/slog"

	"medsync/internal/app/client/config"
	"medsync/internal/app/client/notification"
	"medsync/internal/app/client/request"
	"medsync/internal/app/client/session"
	"medsync/internal/app/client/status"
	"medsync/internal/app/client/storage"
)

// App собирает компоненты клиента и управляет фоновыми задачами
type App struct {
	config *config.Config
	log    *slog.Logger

	store         storage.Store
	monitor       *status.Monitor
	watcher       *status.InterfaceWatcher
	requests      *request.Client
	remote        *session.RemoteProvider
	sessions      *session.Manager
	repair        *session.RepairAgent
	notifications *notification.Synchronizer

	wg      gosync.WaitGroup
	cancel  context.CancelFunc
	mu      gosync.Mutex
	running bool
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	return NewWithStore(cfg, store, log), nil
}

// NewWithStore собирает приложение поверх готового хранилища
func NewWithStore(cfg *config.Config, store storage.Store, log *slog.Logger) *App {
	monitor := status.New(status.Config{
		HealthURL: cfg.HealthURL(),
		Interval:  cfg.StatusInterval,
		Timeout:   cfg.ProbeTimeout,
	}, log)

	requests := request.New(request.Config{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.RequestTimeout,
		MaxAttempts:       cfg.MaxAttempts,
		RetryDelay:        cfg.RetryDelay,
		MockLatencyMin:    cfg.MockLatencyMin,
		MockLatencyMax:    cfg.MockLatencyMax,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, monitor, log)

	remote := session.NewRemoteProvider(requests, log)
	providers := session.Chain{remote, session.NewLocalDemoProvider(log)}
	sessions := session.NewManager(providers, remote, store, log)
	requests.SetTokenSource(sessions)

	repair := session.NewRepairAgent(sessions, remote, session.RepairConfig{
		Interval:        cfg.RepairInterval,
		Email:           cfg.RecoveryEmail,
		Password:        cfg.RecoveryPassword,
		PrivilegedRoles: cfg.PrivilegedRoles,
	}, log)

	notifications := notification.NewSynchronizer(notification.NewAPI(requests), cfg.PollInterval, log)

	var watcher *status.InterfaceWatcher
	if cfg.ConnectivityEnabled {
		watcher = status.NewInterfaceWatcher(0, log)
	}

	return &App{
		config:        cfg,
		log:           log,
		store:         store,
		monitor:       monitor,
		watcher:       watcher,
		requests:      requests,
		remote:        remote,
		sessions:      sessions,
		repair:        repair,
		notifications: notifications,
	}
}

// Init восстанавливает сессию из хранилища
func (a *App) Init(ctx context.Context) error {
	if err := a.sessions.Restore(ctx); err != nil {
		a.log.Warn("Сессия не восстановлена", "error", err)
	}
	return nil
}

// Run запускает фоновые задачи и блокируется до отмены ctx или сигнала завершения
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("клиент уже запущен")
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.running = true
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.handleSignals(ctx)
	}()

	a.monitor.Start(ctx)
	a.repair.Start(ctx)
	a.notifications.Start(ctx, notification.ListParams{})

	if a.watcher != nil {
		events := a.watcher.Run(ctx)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.monitor.Watch(ctx, events)
		}()
	}

	a.log.Info("Клиент запущен",
		"server", a.config.BaseURL,
		"env", a.config.Env,
	)

	<-ctx.Done()
	a.Shutdown()
	return nil
}

func (a *App) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.log.Info("Получен сигнал завершения", "signal", sig.String())
		a.mu.Lock()
		if a.cancel != nil {
			a.cancel()
		}
		a.mu.Unlock()
	case <-ctx.Done():
	}
}

// Shutdown останавливает фоновые задачи
func (a *App) Shutdown() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()

	a.log.Info("Завершение работы клиента...")

	a.notifications.Stop()
	a.repair.Stop()
	a.monitor.Stop()
	a.wg.Wait()

	a.log.Info("Клиент завершил работу")
}

// Close освобождает хранилище
func (a *App) Close() error {
	a.Shutdown()
	return a.store.Close()
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Monitor() *status.Monitor {
	return a.monitor
}

func (a *App) Requests() *request.Client {
	return a.requests
}

func (a *App) Sessions() *session.Manager {
	return a.sessions
}

func (a *App) Repair() *session.RepairAgent {
	return a.repair
}

func (a *App) Notifications() *notification.Synchronizer {
	return a.notifications
}
