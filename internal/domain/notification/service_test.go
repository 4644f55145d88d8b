package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"medsync/internal/domain/notification"
	"medsync/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*notification.Service, context.Context) {
	t.Helper()
	return notification.NewService(memory.NewNotificationRepository(), slog.Default()), context.Background()
}

func TestAction_Target(t *testing.T) {
	tests := []struct {
		action notification.Action
		want   notification.Status
		ok     bool
	}{
		{notification.ActionMarkRead, notification.StatusRead, true},
		{notification.ActionMarkUnread, notification.StatusUnread, true},
		{notification.ActionArchive, notification.StatusArchived, true},
		{notification.ActionUnarchive, notification.StatusRead, true},
		{notification.Action("explode"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, ok := tt.action.Target()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_SeedAndStats(t *testing.T) {
	svc, ctx := newService(t)

	require.NoError(t, svc.Seed(ctx, "u-1"))

	items, err := svc.List(ctx, "u-1", notification.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 5)

	stats, err := svc.Stats(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Unread)
	assert.Equal(t, 1, stats.ByPriority[notification.PriorityUrgent])
	assert.Equal(t, 1, stats.ByPriority[notification.PriorityHigh])
	assert.Equal(t, 2, stats.ByPriority[notification.PriorityMedium])
	assert.Equal(t, 1, stats.ByPriority[notification.PriorityLow])

	empty, err := svc.Stats(ctx, "u-2")
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Contains(t, empty.ByPriority, notification.PriorityUrgent)
}

func TestService_ApplyAndMarkAll(t *testing.T) {
	svc, ctx := newService(t)

	n, err := svc.Notify(ctx, notification.Notification{UserID: "u-1", Title: "Lab result"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, notification.StatusUnread, n.Status)
	assert.Equal(t, notification.PriorityMedium, n.Priority)

	require.NoError(t, svc.Apply(ctx, "u-1", n.ID, notification.ActionArchive))
	archived, _ := svc.List(ctx, "u-1", notification.Filter{Status: notification.StatusArchived})
	require.Len(t, archived, 1)
	assert.NotNil(t, archived[0].ReadAt)

	require.NoError(t, svc.Apply(ctx, "u-1", n.ID, notification.ActionMarkUnread))
	assert.ErrorIs(t, svc.Apply(ctx, "u-1", n.ID, notification.Action("explode")), notification.ErrInvalidInput)
	assert.ErrorIs(t, svc.Apply(ctx, "u-2", n.ID, notification.ActionMarkRead), notification.ErrNotFound)

	count, err := svc.MarkAllRead(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, _ := svc.Stats(ctx, "u-1")
	assert.Zero(t, stats.Unread)
}

func TestService_Delete(t *testing.T) {
	svc, ctx := newService(t)
	require.NoError(t, svc.Seed(ctx, "u-1"))
	items, _ := svc.List(ctx, "u-1", notification.Filter{})

	require.NoError(t, svc.Delete(ctx, "u-1", items[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", items[0].ID), notification.ErrNotFound)

	_, err := svc.BulkDelete(ctx, "u-1", nil)
	assert.ErrorIs(t, err, notification.ErrInvalidInput)

	count, err := svc.BulkDelete(ctx, "u-1", []string{items[1].ID, items[2].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	left, _ := svc.List(ctx, "u-1", notification.Filter{})
	assert.Len(t, left, 2)
}

func TestService_ListValidation(t *testing.T) {
	svc, ctx := newService(t)

	tests := []struct {
		name   string
		filter notification.Filter
	}{
		{"unknown status", notification.Filter{Status: "deleted"}},
		{"unknown priority", notification.Filter{Priority: "critical"}},
		{"limit too big", notification.Filter{Limit: notification.MaxLimit + 1}},
		{"negative page", notification.Filter{Page: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(ctx, "u-1", tt.filter)
			assert.ErrorIs(t, err, notification.ErrInvalidInput)
		})
	}
}

func TestService_NotifyValidation(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Notify(ctx, notification.Notification{Title: "no user"})
	assert.ErrorIs(t, err, notification.ErrInvalidInput)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n, err := svc.Notify(ctx, notification.Notification{ID: "fixed", UserID: "u-1", Title: "t", CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, "fixed", n.ID)
	assert.Equal(t, created, n.CreatedAt)
}
