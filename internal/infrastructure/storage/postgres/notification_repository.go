package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"medsync/internal/domain/notification"
)

const notificationColumns = `id, user_id, title, message, type, priority, status,
       patient_id, patient_name, created_at, read_at`

type NotificationRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewNotificationRepository(db *Storage, log *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:  db,
		log: log,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type), string(n.Priority), string(n.Status),
		n.PatientID, n.PatientName, n.CreatedAt, n.ReadAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, userID string, f notification.Filter) ([]notification.Notification, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("status", string(f.Status))
	add("priority", string(f.Priority))
	add("type", string(f.Type))

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	result := make([]notification.Notification, 0)
	for rows.Next() {
		var (
			n                      notification.Notification
			typ, priority, status  string
			patientID, patientName *string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &priority, &status,
			&patientID, &patientName, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = notification.Type(typ)
		n.Priority = notification.Priority(priority)
		n.Status = notification.Status(status)
		if patientID != nil {
			n.PatientID = *patientID
		}
		if patientName != nil {
			n.PatientName = *patientName
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *NotificationRepository) SetStatus(ctx context.Context, userID, id string, status notification.Status, at time.Time) error {
	var readAt *time.Time
	if status != notification.StatusUnread {
		readAt = &at
	}

	var updated string
	err := r.db.Pool().QueryRow(ctx,
		`UPDATE notifications
            SET status = $3,
                read_at = CASE WHEN $4::timestamptz IS NULL THEN NULL ELSE COALESCE(read_at, $4) END
          WHERE id = $1 AND user_id = $2
      RETURNING id`,
		id, userID, string(status), readAt).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.ErrNotFound
		}
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE notifications SET status = 'read', read_at = $2
          WHERE user_id = $1 AND status = 'unread'`,
		userID, at)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) BulkDelete(ctx context.Context, userID string, ids []string) (int, error) {
	tx, err := r.db.Pool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.log.Error("rollback failed", "error", err)
		}
	}()

	tag, err := tx.Exec(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
