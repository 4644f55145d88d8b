package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"medsync/internal/app/server/api/http/middleware/auth"
	"medsync/internal/domain/session"
	"medsync/internal/domain/user"
)

// Seeder заполняет ленту уведомлений нового пользователя
type Seeder interface {
	Seed(ctx context.Context, userID string) error
}

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	seeder     Seeder
	log        *slog.Logger
	public     huma.Middlewares
	protected  huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, seeder Seeder, log *slog.Logger, public, protected huma.Middlewares) *Handler {
	return &Handler{
		service:   service,
		session:   session,
		seeder:    seeder,
		log:       log.With(slog.String("component", "auth_handler")),
		public:    public,
		protected: protected,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
	huma.Register(api, h.profileOp(), h.profile)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	u, err := h.service.Register(ctx, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, user.ErrAlreadyExists):
			return nil, huma.Error409Conflict("an account with this email already exists")
		default:
			h.log.Error("register failed", "error", err)
			return nil, huma.Error500InternalServerError("registration failed")
		}
	}

	if h.seeder != nil {
		if err := h.seeder.Seed(ctx, u.ID); err != nil {
			h.log.Warn("seed notifications failed", "user_id", u.ID, "error", err)
		}
	}

	return &registerOutput{
		Status: http.StatusCreated,
		Body: AuthResponse{
			Status:  statusSuccess,
			Message: "Registration successful. Please sign in.",
			Data:    &AuthData{User: toDTO(u)},
		},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*authOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		h.log.Error("authenticate failed", "error", err)
		return nil, huma.Error500InternalServerError("login failed")
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("create session failed", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("login failed")
	}

	return &authOutput{
		Body: AuthResponse{
			Status:  statusSuccess,
			Message: "Login successful",
			Data:    &AuthData{User: toDTO(u), Token: token},
		},
	}, nil
}

func (h *Handler) logout(ctx context.Context, _ *emptyInput) (*authOutput, error) {
	token, ok := auth.GetToken(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.session.Revoke(ctx, token); err != nil {
		h.log.Error("revoke session failed", "error", err)
		return nil, huma.Error500InternalServerError("logout failed")
	}

	return &authOutput{
		Body: AuthResponse{Status: statusSuccess, Message: "Logged out"},
	}, nil
}

func (h *Handler) profile(ctx context.Context, _ *emptyInput) (*authOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	u, err := h.service.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, huma.Error401Unauthorized("account no longer exists")
		}
		h.log.Error("load profile failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("profile unavailable")
	}

	return &authOutput{
		Body: AuthResponse{Status: statusSuccess, Data: &AuthData{User: toDTO(u)}},
	}, nil
}
