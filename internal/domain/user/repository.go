package user

import (
	"context"
)

// Repository хранит пользователей. Create возвращает ErrAlreadyExists для
// занятого адреса, поиск возвращает ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}
