// Package session владеет аутентифицированной личностью пользователя.
package session

import (
	"github.com/goccy/go-json"

	"medsync/internal/utils/jsonid"
)

// User - запись о пользователе, как ее возвращает сервер
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UnmarshalJSON принимает id как строкой, так и числом
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Name  string          `json:"name"`
		Email string          `json:"email"`
		Role  string          `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := jsonid.Parse(raw.ID)
	if err != nil {
		return err
	}

	*u = User{ID: id, Name: raw.Name, Email: raw.Email, Role: raw.Role}
	return nil
}

// Session - текущая сессия. Пустой токен означает анонимного пользователя.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// State - состояние менеджера сессии
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateReauthenticating
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateReauthenticating:
		return "reauthenticating"
	default:
		return "unknown"
	}
}

// RegisterRequest - данные регистрации. Подтверждение пароля на сервер не отправляется.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult - ответ провайдера на успешный вход
type AuthResult struct {
	User     User
	Token    string
	Provider string
}
