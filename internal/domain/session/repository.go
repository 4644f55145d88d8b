package session

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidSession - токен неизвестен или истек
var ErrInvalidSession = errors.New("invalid session")

// Repository хранит хэши токенов. Validate возвращает ErrInvalidSession
// для неизвестного или истекшего токена.
type Repository interface {
	Create(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
}
