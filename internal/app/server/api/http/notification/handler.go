package notification

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"medsync/internal/app/server/api/http/middleware/auth"
	"medsync/internal/domain/notification"
)

type Handler struct {
	service    notification.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service notification.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "notification_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.statsOp(), h.stats)
	huma.Register(api, h.markAllReadOp(), h.markAllRead)
	huma.Register(api, h.bulkDeleteOp(), h.bulkDelete)
	huma.Register(api, h.actionOp(), h.action)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.service.List(ctx, userID, notification.Filter{
		Status:   notification.Status(input.Status),
		Priority: notification.Priority(input.Priority),
		Type:     notification.Type(input.Type),
		Limit:    input.Limit,
		Page:     input.Page,
	})
	if err != nil {
		return nil, h.mapError(err)
	}

	out := &listOutput{}
	out.Body.Success = true
	out.Body.Data = make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		out.Body.Data = append(out.Body.Data, toDTO(n))
	}
	return out, nil
}

func (h *Handler) stats(ctx context.Context, _ *statsInput) (*statsOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := h.service.Stats(ctx, userID)
	if err != nil {
		return nil, h.mapError(err)
	}

	out := &statsOutput{}
	out.Body.Success = true
	out.Body.Data = StatsDTO{
		Total:  stats.Total,
		Unread: stats.Unread,
		Today:  stats.Today,
		PriorityStats: PriorityStatsDTO{
			Urgent: stats.ByPriority[notification.PriorityUrgent],
			High:   stats.ByPriority[notification.PriorityHigh],
			Medium: stats.ByPriority[notification.PriorityMedium],
			Low:    stats.ByPriority[notification.PriorityLow],
		},
	}
	return out, nil
}

func (h *Handler) action(ctx context.Context, input *actionInput) (*ackOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.Apply(ctx, userID, input.ID, notification.Action(input.Action)); err != nil {
		return nil, h.mapError(err)
	}
	return ack("Notification updated", nil), nil
}

func (h *Handler) markAllRead(ctx context.Context, _ *markAllInput) (*ackOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := h.service.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, h.mapError(err)
	}
	return ack("All notifications marked as read", &CountDTO{Count: count}), nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*ackOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		return nil, h.mapError(err)
	}
	return ack("Notification deleted", nil), nil
}

func (h *Handler) bulkDelete(ctx context.Context, input *bulkDeleteInput) (*ackOutput, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := h.service.BulkDelete(ctx, userID, input.Body.IDs)
	if err != nil {
		return nil, h.mapError(err)
	}
	return ack("Notifications deleted", &CountDTO{Count: count}), nil
}

func (h *Handler) userID(ctx context.Context) (string, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("not authenticated")
	}
	return userID, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return huma.Error404NotFound("notification not found")
	case errors.Is(err, notification.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		h.log.Error("notification operation failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}

func ack(msg string, data *CountDTO) *ackOutput {
	return &ackOutput{Body: AckResponse{Success: true, Message: msg, Data: data}}
}
