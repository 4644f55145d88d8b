package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const (
	localTokenPrefix = "local-"
	defaultLocalRole = "staff"
)

// DemoAccount - учетная запись встроенной таблицы
type DemoAccount struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// DemoAccounts - встроенные учетные записи для работы без сервера
var DemoAccounts = []DemoAccount{
	{ID: "1", Name: "Admin User", Email: "admin@hospital.com", Password: "admin123", Role: "admin"},
	{ID: "2", Name: "Dr. Sarah Wilson", Email: "doctor@hospital.com", Password: "doctor123", Role: "doctor"},
	{ID: "3", Name: "Nurse Emily Davis", Email: "nurse@hospital.com", Password: "nurse123", Role: "nurse"},
	{ID: "4", Name: "Reception Staff", Email: "reception@hospital.com", Password: "reception123", Role: "receptionist"},
}

type localAccount struct {
	user User
	hash []byte
}

// LocalDemoProvider - локальный провайдер для демонстрации и работы без сервера.
// Неизвестный адрес принимается как новая учетная запись с ролью staff.
type LocalDemoProvider struct {
	mu       sync.RWMutex
	accounts map[string]localAccount
	cost     int
	log      *slog.Logger
}

func NewLocalDemoProvider(log *slog.Logger) *LocalDemoProvider {
	return newLocalDemoProvider(bcrypt.DefaultCost, log)
}

func newLocalDemoProvider(cost int, log *slog.Logger) *LocalDemoProvider {
	p := &LocalDemoProvider{
		accounts: make(map[string]localAccount, len(DemoAccounts)),
		cost:     cost,
		log:      log.With(slog.String("provider", "local")),
	}
	for _, a := range DemoAccounts {
		if err := p.add(User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}, a.Password); err != nil {
			p.log.Error("Не удалось добавить демо-учетную запись", "email", a.Email, "error", err)
		}
	}
	return p
}

func (p *LocalDemoProvider) Name() string {
	return "local"
}

func (p *LocalDemoProvider) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := normalizeEmail(email)

	p.mu.RLock()
	acc, ok := p.accounts[key]
	p.mu.RUnlock()

	var user User
	if ok {
		if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		user = acc.user
	} else {
		user = User{
			ID:    uuid.NewString(),
			Name:  nameFromEmail(key),
			Email: key,
			Role:  defaultLocalRole,
		}
		p.log.Info("Создана локальная учетная запись", "email", key)
	}

	return &AuthResult{
		User:     user,
		Token:    localTokenPrefix + uuid.NewString(),
		Provider: p.Name(),
	}, nil
}

func (p *LocalDemoProvider) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := normalizeEmail(req.Email)

	p.mu.RLock()
	_, exists := p.accounts[key]
	p.mu.RUnlock()
	if exists {
		return "", fmt.Errorf("%w: user with this email already exists", ErrRegistrationFailed)
	}

	user := User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Email: key,
		Role:  defaultLocalRole,
	}
	if err := p.add(user, req.Password); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	return "Registration successful. Please log in.", nil
}

func (p *LocalDemoProvider) Logout(context.Context) error {
	return nil
}

func (p *LocalDemoProvider) add(user User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[normalizeEmail(user.Email)] = localAccount{user: user, hash: hash}
	return nil
}

// IsLocalToken сообщает, что токен выдан локальным провайдером
func IsLocalToken(token string) bool {
	return strings.HasPrefix(token, localTokenPrefix)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameFromEmail строит имя из локальной части адреса: john.doe -> John Doe
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}

	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
