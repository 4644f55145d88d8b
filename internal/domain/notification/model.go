package notification

import "time"

type Type string

const (
	TypeAppointmentCreated   Type = "appointment_created"
	TypeAppointmentUpdated   Type = "appointment_updated"
	TypeAppointmentCancelled Type = "appointment_cancelled"
	TypeAppointmentReminder  Type = "appointment_reminder"
	TypePatientRegistered    Type = "patient_registered"
	TypeLabResult            Type = "lab_result"
	TypeBillingDue           Type = "billing_due"
	TypeInventoryLow         Type = "inventory_low"
	TypeSystemAlert          Type = "system_alert"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// Action - переход статуса уведомления
type Action string

const (
	ActionMarkRead   Action = "mark-read"
	ActionMarkUnread Action = "mark-unread"
	ActionArchive    Action = "archive"
	ActionUnarchive  Action = "unarchive"
)

// Target возвращает статус после перехода
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionMarkRead, ActionUnarchive:
		return StatusRead, true
	case ActionMarkUnread:
		return StatusUnread, true
	case ActionArchive:
		return StatusArchived, true
	default:
		return "", false
	}
}

type Notification struct {
	ID          string
	UserID      string
	Title       string
	Message     string
	Type        Type
	Priority    Priority
	Status      Status
	PatientID   string
	PatientName string
	CreatedAt   time.Time
	ReadAt      *time.Time
}

// Filter - фильтры списка. Limit 0 снимает ограничение, Page начинается с 1.
type Filter struct {
	Status   Status
	Priority Priority
	Type     Type
	Limit    int
	Page     int
}

// Offset - смещение первой записи страницы
func (f Filter) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Match проверяет уведомление по фильтрам без учета страницы
func (f Filter) Match(n Notification) bool {
	if f.Status != "" && n.Status != f.Status {
		return false
	}
	if f.Priority != "" && n.Priority != f.Priority {
		return false
	}
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	return true
}

type Stats struct {
	Total      int
	Unread     int
	Today      int
	ByPriority map[Priority]int
}
