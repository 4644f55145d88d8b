package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"

	"medsync/internal/app/client/storage"
)

// ProfileFetcher возвращает пользователя по текущему токену
type ProfileFetcher interface {
	Profile(ctx context.Context) (*User, error)
}

// Manager хранит текущую сессию в памяти и в хранилище.
// Менеджер - единственный, кто пишет в хранилище сессии.
type Manager struct {
	provider  CredentialProvider
	profile   ProfileFetcher
	store     storage.Store
	validator *Validator
	log       *slog.Logger

	mu         sync.RWMutex
	session    Session
	state      State
	generation uint64
}

func NewManager(provider CredentialProvider, profile ProfileFetcher, store storage.Store, log *slog.Logger) *Manager {
	return &Manager{
		provider:  provider,
		profile:   profile,
		store:     store,
		validator: NewValidator(),
		log:       log.With(slog.String("component", "session_manager")),
		state:     StateAnonymous,
	}
}

// Restore восстанавливает сессию из хранилища при запуске.
// Токен без пользователя проверяется запросом профиля, при ошибке сессия очищается.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
			return fmt.Errorf("clear user: %w", err)
		}
		return nil
	}
	if err != nil {
		// нечитаемая сессия (например, сменился пароль хранилища) не восстановится и позже
		m.log.Warn("Сохраненная сессия не читается, хранилище очищено", "error", err)
		if clearErr := m.clearStore(ctx); clearErr != nil {
			return errors.Join(fmt.Errorf("read token: %w", err), clearErr)
		}
		return fmt.Errorf("read token: %w", err)
	}

	if user, err := m.loadUser(ctx); err == nil {
		m.mu.Lock()
		m.session = Session{User: user, Token: token}
		m.state = StateAuthenticated
		m.generation++
		m.mu.Unlock()

		m.log.Info("Сессия восстановлена", "email", user.Email)
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("Сохраненный пользователь поврежден", "error", err)
	}

	// токен нужен в памяти, чтобы запрос профиля ушел с ним
	m.mu.Lock()
	m.session = Session{Token: token}
	m.state = StateReauthenticating
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	user, err := m.profile.Profile(ctx)
	if err != nil {
		m.log.Warn("Не удалось получить профиль, сессия очищена", "error", err)
		if clearErr := m.clearIf(ctx, gen); clearErr != nil {
			return clearErr
		}
		return fmt.Errorf("restore session: %w", err)
	}

	if err := m.saveUser(ctx, user); err != nil {
		return err
	}

	m.mu.Lock()
	if m.generation == gen {
		m.session.User = user
		m.state = StateAuthenticated
	}
	m.mu.Unlock()

	m.log.Info("Профиль восстановлен", "email", user.Email)
	return nil
}

// Login проверяет ввод и выполняет вход через цепочку провайдеров.
// При ошибке хранилище и текущая сессия не меняются.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := m.validator.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	prev := m.setState(StateAuthenticating)

	res, err := m.provider.Login(ctx, normalizeEmail(email), password)
	if err != nil {
		m.setState(prev)
		m.log.Info("Вход не выполнен", "email", email, "error", err)
		return nil, err
	}

	if err := m.persist(ctx, &res.User, res.Token); err != nil {
		m.setState(prev)
		m.rollback(ctx)
		return nil, err
	}

	m.mu.Lock()
	m.session = Session{User: &res.User, Token: res.Token}
	m.state = StateAuthenticated
	m.generation++
	s := m.session.clone()
	m.mu.Unlock()

	m.log.Info("Вход выполнен",
		"email", res.User.Email,
		"role", res.User.Role,
		"provider", res.Provider,
	)

	return &s, nil
}

// Register создает учетную запись. Вход после регистрации не выполняется.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := m.validator.ValidateRegister(req); err != nil {
		return "", err
	}

	req.Email = normalizeEmail(req.Email)
	msg, err := m.provider.Register(ctx, req)
	if err != nil {
		m.log.Info("Регистрация не выполнена", "email", req.Email, "error", err)
		return "", err
	}

	m.log.Info("Регистрация выполнена", "email", req.Email)
	return msg, nil
}

// Logout уведомляет сервер, если получится, и всегда очищает сессию
func (m *Manager) Logout(ctx context.Context) error {
	if m.Token() != "" {
		if err := m.provider.Logout(ctx); err != nil {
			m.log.Debug("Ошибка выхода на сервере", "error", err)
		}
	}
	return m.Clear(ctx)
}

// Clear удаляет сессию из памяти и хранилища
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.session = Session{}
	m.state = StateAnonymous
	m.generation++
	m.mu.Unlock()

	return m.clearStore(ctx)
}

// Current возвращает копию сессии или nil для анонимного пользователя
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.Token == "" || m.session.User == nil {
		return nil
	}
	s := m.session.clone()
	return &s
}

// Token реализует request.TokenSource
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current() != nil
}

// snapshot возвращает сессию вместе с ее поколением
func (m *Manager) snapshot() (Session, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.clone(), m.generation
}

// beginReauth переводит сессию поколения gen в состояние повторного входа
func (m *Manager) beginReauth(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen || m.session.Token == "" {
		return false
	}
	m.state = StateReauthenticating
	return true
}

// replaceToken заменяет токен сессии поколения gen, не создавая новую сессию
func (m *Manager) replaceToken(ctx context.Context, gen uint64, token string) error {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return fmt.Errorf("session changed during repair")
	}
	m.mu.Unlock()

	if err := m.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return fmt.Errorf("session changed during repair")
	}
	m.session.Token = token
	m.state = StateAuthenticated
	return nil
}

// clearIf очищает сессию, только если она не сменилась
func (m *Manager) clearIf(ctx context.Context, gen uint64) error {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return nil
	}
	m.session = Session{}
	m.state = StateAnonymous
	m.generation++
	m.mu.Unlock()

	return m.clearStore(ctx)
}

func (m *Manager) setState(s State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = s
	return prev
}

func (m *Manager) persist(ctx context.Context, user *User, token string) error {
	if err := m.saveUser(ctx, user); err != nil {
		return err
	}
	if err := m.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// rollback возвращает в хранилище сессию из памяти после неудачной записи
func (m *Manager) rollback(ctx context.Context) {
	m.mu.RLock()
	prev := m.session.clone()
	m.mu.RUnlock()

	var err error
	if prev.Token == "" || prev.User == nil {
		err = m.clearStore(ctx)
	} else {
		err = m.persist(ctx, prev.User, prev.Token)
	}
	if err != nil {
		m.log.Error("Не удалось восстановить хранилище сессии", "error", err)
	}
}

func (m *Manager) clearStore(ctx context.Context) error {
	var errs []error
	if err := m.store.Delete(ctx, storage.KeyToken); err != nil {
		errs = append(errs, fmt.Errorf("delete token: %w", err))
	}
	if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
		errs = append(errs, fmt.Errorf("delete user: %w", err))
	}
	return errors.Join(errs...)
}

func (m *Manager) saveUser(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := m.store.Set(ctx, storage.KeyUser, string(data)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (m *Manager) loadUser(ctx context.Context) (*User, error) {
	data, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.Email == "" && user.ID == "" {
		return nil, fmt.Errorf("decode user: empty record")
	}
	return &user, nil
}
