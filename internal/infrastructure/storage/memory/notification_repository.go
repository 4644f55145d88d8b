package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"medsync/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		items: make(map[string]notification.Notification),
	}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[n.ID] = n
	return nil
}

func (r *NotificationRepository) List(_ context.Context, userID string, f notification.Filter) ([]notification.Notification, error) {
	r.mu.RLock()
	result := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID && f.Match(n) {
			result = append(result, n)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if f.Limit > 0 {
		offset := f.Offset()
		if offset >= len(result) {
			return []notification.Notification{}, nil
		}
		end := offset + f.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (r *NotificationRepository) SetStatus(_ context.Context, userID, id string, status notification.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.Status = status
	switch status {
	case notification.StatusUnread:
		n.ReadAt = nil
	default:
		if n.ReadAt == nil {
			readAt := at
			n.ReadAt = &readAt
		}
	}
	r.items[id] = n
	return nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, n := range r.items {
		if n.UserID != userID || n.Status != notification.StatusUnread {
			continue
		}
		readAt := at
		n.Status = notification.StatusRead
		n.ReadAt = &readAt
		r.items[id] = n
		count++
	}
	return count, nil
}

func (r *NotificationRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *NotificationRepository) BulkDelete(_ context.Context, userID string, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, id := range ids {
		if n, ok := r.items[id]; ok && n.UserID == userID {
			delete(r.items, id)
			count++
		}
	}
	return count, nil
}
