package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"medsync/internal/app/client/request"
)

const (
	listPath        = "/notifications"
	statsPath       = "/notifications-stats"
	markAllReadPath = "/notifications/mark-all-read"
	bulkDeletePath  = "/notifications/bulk-delete"
)

var (
	// ErrNotAcknowledged - сервер не подтвердил операцию, локальное состояние не изменено
	ErrNotAcknowledged = errors.New("operation not acknowledged by server")
	ErrInvalidPayload  = errors.New("invalid notification payload")
)

// Requester - клиент запросов с подстановкой синтетических данных
type Requester interface {
	Do(ctx context.Context, method, endpoint string, body any) *request.Outcome
}

type envelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Status == "success"
}

// API - обертка над эндпоинтами уведомлений. Синтетические ответы
// клиента запросов считаются неподтвержденными.
type API struct {
	client Requester
}

func NewAPI(client Requester) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, params ListParams) ([]Notification, error) {
	endpoint := listPath
	if q := params.Query(); q != "" {
		endpoint += "?" + q
	}

	data, err := a.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var items []Notification
	if len(data) == 0 {
		return []Notification{}, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if items == nil {
		items = []Notification{}
	}
	return items, nil
}

func (a *API) Stats(ctx context.Context) (*Stats, error) {
	data, err := a.call(ctx, http.MethodGet, statsPath, nil)
	if err != nil {
		return nil, err
	}

	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &stats, nil
}

func (a *API) MarkRead(ctx context.Context, id string) error {
	return a.action(ctx, http.MethodPut, itemPath(id, "mark-read"), nil)
}

func (a *API) MarkUnread(ctx context.Context, id string) error {
	return a.action(ctx, http.MethodPut, itemPath(id, "mark-unread"), nil)
}

func (a *API) Archive(ctx context.Context, id string) error {
	return a.action(ctx, http.MethodPut, itemPath(id, "archive"), nil)
}

func (a *API) Unarchive(ctx context.Context, id string) error {
	return a.action(ctx, http.MethodPut, itemPath(id, "unarchive"), nil)
}

func (a *API) MarkAllRead(ctx context.Context) error {
	return a.action(ctx, http.MethodPut, markAllReadPath, nil)
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.action(ctx, http.MethodDelete, listPath+"/"+url.PathEscape(id), nil)
}

func (a *API) BulkDelete(ctx context.Context, ids []string) error {
	return a.action(ctx, http.MethodDelete, bulkDeletePath, struct {
		IDs []string `json:"ids"`
	}{IDs: ids})
}

func (a *API) action(ctx context.Context, method, endpoint string, body any) error {
	_, err := a.call(ctx, method, endpoint, body)
	return err
}

func (a *API) call(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	out := a.client.Do(ctx, method, endpoint, body)
	if out.Source != request.SourceAPI || !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "no server response"
		}
		return nil, fmt.Errorf("%w: %s", ErrNotAcknowledged, msg)
	}

	var env envelope
	if err := out.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAcknowledged, err)
	}
	if !env.ok() {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotAcknowledged, env.Message)
		}
		return nil, ErrNotAcknowledged
	}

	return env.Data, nil
}

func itemPath(id, action string) string {
	return listPath + "/" + url.PathEscape(id) + "/" + action
}
