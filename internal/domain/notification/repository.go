package notification

import (
	"context"
	"time"
)

// Repository хранит уведомления пользователей. Операции над чужими или
// несуществующими уведомлениями возвращают ErrNotFound. List сортирует
// по убыванию времени создания.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, userID string, f Filter) ([]Notification, error)
	SetStatus(ctx context.Context, userID, id string, status Status, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)
	Delete(ctx context.Context, userID, id string) error
	BulkDelete(ctx context.Context, userID string, ids []string) (int, error)
}
