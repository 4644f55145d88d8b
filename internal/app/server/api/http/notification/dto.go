package notification

import (
	"time"

	"medsync/internal/domain/notification"
)

type PatientDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NotificationDTO struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Type      string      `json:"type"`
	Priority  string      `json:"priority"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	ReadAt    *time.Time  `json:"read_at,omitempty"`
	Patient   *PatientDTO `json:"patient,omitempty"`
}

func toDTO(n notification.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Priority:  string(n.Priority),
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
	if n.PatientID != "" || n.PatientName != "" {
		dto.Patient = &PatientDTO{ID: n.PatientID, Name: n.PatientName}
	}
	return dto
}

type PriorityStatsDTO struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type StatsDTO struct {
	Total         int              `json:"total"`
	Unread        int              `json:"unread"`
	Today         int              `json:"today"`
	PriorityStats PriorityStatsDTO `json:"priority_stats"`
}

type listInput struct {
	Status   string `query:"status" doc:"unread, read or archived"`
	Priority string `query:"priority" doc:"urgent, high, medium or low"`
	Type     string `query:"type"`
	Limit    int    `query:"limit" minimum:"0" maximum:"200" default:"50"`
	Page     int    `query:"page" minimum:"1" default:"1"`
}

type listOutput struct {
	Body struct {
		Success bool              `json:"success"`
		Data    []NotificationDTO `json:"data"`
	}
}

type statsInput struct{}

type statsOutput struct {
	Body struct {
		Success bool     `json:"success"`
		Data    StatsDTO `json:"data"`
	}
}

type actionInput struct {
	ID     string `path:"id"`
	Action string `path:"action" enum:"mark-read,mark-unread,archive,unarchive"`
}

type idInput struct {
	ID string `path:"id"`
}

type markAllInput struct{}

type bulkDeleteInput struct {
	Body struct {
		IDs []string `json:"ids" minItems:"1" maxItems:"500"`
	}
}

type CountDTO struct {
	Count int `json:"count"`
}

// AckResponse - подтверждение изменения
type AckResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *CountDTO `json:"data,omitempty"`
}

type ackOutput struct {
	Body AckResponse
}
