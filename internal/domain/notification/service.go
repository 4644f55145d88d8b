package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const MaxLimit = 200

type Servicer interface {
	List(ctx context.Context, userID string, f Filter) ([]Notification, error)
	Stats(ctx context.Context, userID string) (Stats, error)
	Apply(ctx context.Context, userID, id string, action Action) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
	BulkDelete(ctx context.Context, userID string, ids []string) (int, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log.With(slog.String("component", "notification_service")),
	}
}

func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Notification, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, f)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	items, err := s.repo.List(ctx, userID, Filter{})
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	stats := Stats{
		ByPriority: map[Priority]int{
			PriorityUrgent: 0,
			PriorityHigh:   0,
			PriorityMedium: 0,
			PriorityLow:    0,
		},
	}
	for _, n := range items {
		stats.Total++
		if n.Status == StatusUnread {
			stats.Unread++
		}
		if !n.CreatedAt.Before(startOfDay) {
			stats.Today++
		}
		stats.ByPriority[n.Priority]++
	}
	return stats, nil
}

func (s *Service) Apply(ctx context.Context, userID, id string, action Action) error {
	status, ok := action.Target()
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	if err := s.repo.SetStatus(ctx, userID, id, status, s.now().UTC()); err != nil {
		return err
	}

	s.log.Debug("notification status changed", "user_id", userID, "id", id, "status", status)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now().UTC())
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) BulkDelete(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must not be empty", ErrInvalidInput)
	}
	return s.repo.BulkDelete(ctx, userID, ids)
}

// Notify сохраняет новое уведомление и возвращает его с присвоенным id
func (s *Service) Notify(ctx context.Context, n Notification) (Notification, error) {
	if n.UserID == "" || n.Title == "" {
		return Notification{}, fmt.Errorf("%w: user and title are required", ErrInvalidInput)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = StatusUnread
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.Type == "" {
		n.Type = TypeSystemAlert
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Seed заполняет ленту нового пользователя примерами
func (s *Service) Seed(ctx context.Context, userID string) error {
	now := s.now().UTC()
	for i, tmpl := range seedTemplates {
		n := tmpl
		n.UserID = userID
		n.CreatedAt = now.Add(-time.Duration(i) * 47 * time.Minute)
		if _, err := s.Notify(ctx, n); err != nil {
			return err
		}
	}
	s.log.Info("notifications seeded", "user_id", userID, "count", len(seedTemplates))
	return nil
}

var seedTemplates = []Notification{
	{
		Title:       "Lab results available",
		Message:     "Complete blood count results are ready for review.",
		Type:        TypeLabResult,
		Priority:    PriorityHigh,
		PatientID:   "P001",
		PatientName: "John Smith",
	},
	{
		Title:       "Appointment scheduled",
		Message:     "Follow-up appointment booked for tomorrow at 10:00.",
		Type:        TypeAppointmentCreated,
		Priority:    PriorityMedium,
		PatientID:   "P002",
		PatientName: "Maria Garcia",
	},
	{
		Title:    "Low stock: Amoxicillin",
		Message:  "Only 12 units left in the main pharmacy.",
		Type:     TypeInventoryLow,
		Priority: PriorityUrgent,
	},
	{
		Title:       "New patient registered",
		Message:     "Robert Chen completed registration at the front desk.",
		Type:        TypePatientRegistered,
		Priority:    PriorityLow,
		Status:      StatusRead,
		PatientID:   "P003",
		PatientName: "Robert Chen",
	},
	{
		Title:    "Invoice overdue",
		Message:  "Invoice INV-2024-031 is 15 days past due.",
		Type:     TypeBillingDue,
		Priority: PriorityMedium,
	},
}

func validateFilter(f Filter) error {
	switch f.Status {
	case "", StatusUnread, StatusRead, StatusArchived:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	switch f.Priority {
	case "", PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, f.Priority)
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidInput, MaxLimit)
	}
	if f.Page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	return nil
}
