package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// RepairResult - итог одной проверки сессии
type RepairResult string

const (
	RepairSkipped     RepairResult = "skipped"
	RepairHealthy     RepairResult = "healthy"
	RepairUnreachable RepairResult = "unreachable"
	RepairRepaired    RepairResult = "repaired"
	RepairFailed      RepairResult = "failed"
)

const defaultRepairInterval = 60 * time.Second

// Authenticator - сервер, на котором проверяется и восстанавливается токен
type Authenticator interface {
	ProfileFetcher
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// RepairConfig настройки агента восстановления
type RepairConfig struct {
	Interval        time.Duration
	Email           string
	Password        string
	PrivilegedRoles []string
}

// RepairAgent находит сессию, токен которой сервер отверг, и выполняет
// повторный вход с учетными данными восстановления. Для одной сессии
// восстановление выполняется не более одного раза.
type RepairAgent struct {
	manager *Manager
	auth    Authenticator
	cfg     RepairConfig
	log     *slog.Logger

	checkMu     sync.Mutex
	repaired    bool
	repairedGen uint64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewRepairAgent(manager *Manager, auth Authenticator, cfg RepairConfig, log *slog.Logger) *RepairAgent {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRepairInterval
	}
	if len(cfg.PrivilegedRoles) == 0 {
		cfg.PrivilegedRoles = []string{"admin"}
	}
	return &RepairAgent{
		manager: manager,
		auth:    auth,
		cfg:     cfg,
		log:     log.With(slog.String("component", "repair_agent")),
	}
}

// Check выполняет одну проверку текущей сессии
func (a *RepairAgent) Check(ctx context.Context) (RepairResult, error) {
	a.checkMu.Lock()
	defer a.checkMu.Unlock()

	sess, gen := a.manager.snapshot()
	if sess.Token == "" || sess.User == nil || !a.privileged(sess.User.Role) {
		return RepairSkipped, nil
	}
	if a.repaired && a.repairedGen == gen {
		return RepairSkipped, nil
	}

	_, err := a.auth.Profile(ctx)
	switch {
	case err == nil:
		return RepairHealthy, nil
	case errors.Is(err, ErrNotAuthenticated):
	case errors.Is(err, ErrBackendUnavailable):
		a.log.Debug("Сервер недоступен, проверка отложена", "error", err)
		return RepairUnreachable, nil
	default:
		a.log.Warn("Проверка сессии не выполнена", "error", err)
		return RepairUnreachable, err
	}

	if !a.manager.beginReauth(gen) {
		return RepairSkipped, nil
	}

	a.log.Info("Сервер отверг токен, выполняем повторный вход", "email", sess.User.Email)

	res, err := a.auth.Login(ctx, a.cfg.Email, a.cfg.Password)
	if err == nil {
		err = a.manager.replaceToken(ctx, gen, res.Token)
	}
	if err != nil {
		a.log.Warn("Восстановление сессии не удалось, сессия очищена", "error", err)
		if clearErr := a.manager.clearIf(ctx, gen); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
		return RepairFailed, fmt.Errorf("repair session: %w", err)
	}

	a.repaired = true
	a.repairedGen = gen

	a.log.Info("Сессия восстановлена", "email", sess.User.Email)
	return RepairRepaired, nil
}

// Start запускает периодическую проверку
func (a *RepairAgent) Start(ctx context.Context) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.stopCh = make(chan struct{})
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(a.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-a.stopCh:
				return
			case <-ticker.C:
				if _, err := a.Check(ctx); err != nil {
					a.log.Debug("Ошибка проверки сессии", "error", err)
				}
			}
		}
	}()
}

// Stop останавливает периодическую проверку
func (a *RepairAgent) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	close(a.stopCh)
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *RepairAgent) privileged(role string) bool {
	for _, r := range a.cfg.PrivilegedRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
