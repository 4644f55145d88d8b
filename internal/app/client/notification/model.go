// Package notification держит локальную копию уведомлений и счетчик непрочитанных.
package notification

import (
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"medsync/internal/utils/jsonid"
)

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

type Patient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Priority  Priority  `json:"priority"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Patient   *Patient  `json:"patient,omitempty"`
}

// UnmarshalJSON принимает id как строкой, так и числом
func (p *Patient) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := jsonid.Parse(raw.ID)
	if err != nil {
		return err
	}

	*p = Patient{ID: id, Name: raw.Name}
	return nil
}

// UnmarshalJSON принимает id как строкой, так и числом
func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Title     string          `json:"title"`
		Message   string          `json:"message"`
		Type      Type            `json:"type"`
		Priority  Priority        `json:"priority"`
		Status    Status          `json:"status"`
		CreatedAt time.Time       `json:"created_at"`
		Patient   *Patient        `json:"patient"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := jsonid.Parse(raw.ID)
	if err != nil {
		return err
	}

	*n = Notification{
		ID:        id,
		Title:     raw.Title,
		Message:   raw.Message,
		Type:      raw.Type,
		Priority:  raw.Priority,
		Status:    raw.Status,
		CreatedAt: raw.CreatedAt,
		Patient:   raw.Patient,
	}
	return nil
}

func (n Notification) clone() Notification {
	if n.Patient != nil {
		p := *n.Patient
		n.Patient = &p
	}
	return n
}

type PriorityStats struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Stats struct {
	Total         int           `json:"total"`
	Unread        int           `json:"unread"`
	Today         int           `json:"today"`
	PriorityStats PriorityStats `json:"priority_stats"`
}

// ListParams - фильтры списка. Пустые поля не отправляются.
type ListParams struct {
	Status   Status
	Priority Priority
	Type     Type
	Limit    int
	Page     int
}

func (p ListParams) Query() string {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Priority != "" {
		q.Set("priority", string(p.Priority))
	}
	if p.Type != "" {
		q.Set("type", string(p.Type))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q.Encode()
}

func countUnread(items []Notification) int {
	n := 0
	for _, item := range items {
		if item.Status == StatusUnread {
			n++
		}
	}
	return n
}
