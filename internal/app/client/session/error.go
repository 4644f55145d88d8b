package session

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidResponseFormat = errors.New("invalid response format")
	ErrRegistrationFailed    = errors.New("registration failed")
	ErrServerFailure         = errors.New("server failure")
	// ErrBackendUnavailable - провайдер не получил ответа; цепочка переходит к следующему
	ErrBackendUnavailable = errors.New("authentication backend unavailable")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError - ошибки ввода, найденные до обращения к сети
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
