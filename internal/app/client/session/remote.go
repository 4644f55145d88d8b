package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"

	"medsync/internal/app/client/request"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	logoutPath   = "/auth/logout"
	profilePath  = "/auth/profile"
)

// Caller выполняет запрос без подстановки синтетических данных
type Caller interface {
	Call(ctx context.Context, method, endpoint string, body any) (*request.Outcome, error)
}

// envelope - ответ сервера вида {status|success, message, data}
type envelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) ok() bool {
	return e.Status == "success" || (e.Success != nil && *e.Success)
}

func (e *envelope) failed() bool {
	return e.Status == "error" || e.Status == "fail" || (e.Success != nil && !*e.Success)
}

type authData struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// RemoteProvider проверяет учетные данные на сервере
type RemoteProvider struct {
	client Caller
	log    *slog.Logger
}

func NewRemoteProvider(client Caller, log *slog.Logger) *RemoteProvider {
	return &RemoteProvider{
		client: client,
		log:    log.With(slog.String("provider", "remote")),
	}
}

func (p *RemoteProvider) Name() string {
	return "remote"
}

func (p *RemoteProvider) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	out, err := p.client.Call(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, p.mapError(err, ErrInvalidCredentials)
	}

	env, err := decodeEnvelope(out)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		if env.failed() {
			return nil, withMessage(ErrInvalidCredentials, env.Message)
		}
		return nil, fmt.Errorf("%w: no success marker", ErrInvalidResponseFormat)
	}

	var data authData
	if len(env.Data) == 0 || json.Unmarshal(env.Data, &data) != nil {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidResponseFormat)
	}
	if data.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidResponseFormat)
	}
	if data.Token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidResponseFormat)
	}

	p.log.Debug("Вход выполнен на сервере", "email", data.User.Email)

	return &AuthResult{User: *data.User, Token: data.Token, Provider: p.Name()}, nil
}

func (p *RemoteProvider) Register(ctx context.Context, req RegisterRequest) (string, error) {
	out, err := p.client.Call(ctx, http.MethodPost, registerPath, req)
	if err != nil {
		return "", p.mapError(err, ErrRegistrationFailed)
	}

	env, err := decodeEnvelope(out)
	if err != nil {
		return "", err
	}
	if !env.ok() {
		return "", withMessage(ErrRegistrationFailed, env.Message)
	}

	return env.Message, nil
}

func (p *RemoteProvider) Logout(ctx context.Context) error {
	if _, err := p.client.Call(ctx, http.MethodPost, logoutPath, nil); err != nil {
		return p.mapError(err, ErrServerFailure)
	}
	return nil
}

// Profile возвращает пользователя, которому принадлежит текущий токен
func (p *RemoteProvider) Profile(ctx context.Context) (*User, error) {
	out, err := p.client.Call(ctx, http.MethodGet, profilePath, nil)
	if err != nil {
		if se, ok := request.AsStatusError(err); ok && se.IsUnauthorized() {
			return nil, withMessage(ErrNotAuthenticated, se.Message)
		}
		return nil, p.mapError(err, ErrServerFailure)
	}

	env, err := decodeEnvelope(out)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		return nil, fmt.Errorf("%w: no success marker", ErrInvalidResponseFormat)
	}

	var data struct {
		User *User `json:"user"`
	}
	if len(env.Data) == 0 || json.Unmarshal(env.Data, &data) != nil {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidResponseFormat)
	}
	if data.User == nil {
		var user User
		if err := json.Unmarshal(env.Data, &user); err != nil || user.Email == "" {
			return nil, fmt.Errorf("%w: missing user", ErrInvalidResponseFormat)
		}
		data.User = &user
	}

	return data.User, nil
}

// mapError превращает ошибку транспорта или статус сервера в ошибку сессии.
// rejected используется для ответов 4xx.
func (p *RemoteProvider) mapError(err error, rejected error) error {
	if request.IsUnavailable(err) {
		p.log.Debug("Сервер аутентификации недоступен", "error", err)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if errors.Is(err, request.ErrMalformedResponse) {
		return fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	if se, ok := request.AsStatusError(err); ok {
		if se.IsClientError() {
			return withMessage(rejected, se.Message)
		}
		return withMessage(ErrServerFailure, se.Error())
	}
	return err
}

func decodeEnvelope(out *request.Outcome) (*envelope, error) {
	var env envelope
	if err := out.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return &env, nil
}

func withMessage(err error, msg string) error {
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}
