package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, req RegisterRequest) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	Get(ctx context.Context, id string) (User, error)
}

type Service struct {
	repo      Repository
	validator Validator
	cost      int
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		cost:      bcrypt.DefaultCost,
		log:       log,
	}
}

// WithCost задает стоимость bcrypt (в тестах используется bcrypt.MinCost)
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.ValidateRegister(req); err != nil {
		s.log.Debug("validation failed", "email", req.Email, "error", err)
		return User{}, err
	}

	return s.create(ctx, req.Name, req.Email, req.Password, RoleStaff)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if err := s.validator.ValidateLogin(email); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidAuth
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// Seed создает учетные записи, которых еще нет в хранилище
func (s *Service) Seed(ctx context.Context, accounts []Account) ([]User, error) {
	created := make([]User, 0, len(accounts))
	for _, a := range accounts {
		email := normalizeEmail(a.Email)
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return created, fmt.Errorf("find user %s: %w", email, err)
		}

		u, err := s.create(ctx, a.Name, email, a.Password, a.Role)
		if err != nil {
			return created, err
		}
		created = append(created, u)
	}
	return created, nil
}

func (s *Service) create(ctx context.Context, name, email, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	s.log.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
