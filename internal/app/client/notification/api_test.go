package notification

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsync/internal/app/client/request"
	"medsync/internal/utils/logger"
)

type online bool

func (o online) IsOnline() bool { return bool(o) }

func newAPI(t *testing.T, handler http.Handler, isOnline bool) *API {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := request.New(request.Config{
		BaseURL:        srv.URL,
		Timeout:        time.Second,
		MaxAttempts:    1,
		MockLatencyMin: time.Millisecond,
		MockLatencyMax: time.Millisecond,
	}, online(isOnline), logger.Discard())

	return NewAPI(client)
}

func TestListParams_Query(t *testing.T) {
	assert.Equal(t, "", ListParams{}.Query())
	assert.Equal(t,
		"limit=20&page=2&priority=urgent&status=unread&type=lab_result",
		ListParams{Status: StatusUnread, Priority: PriorityUrgent, Type: TypeLabResult, Limit: 20, Page: 2}.Query(),
	)
}

func TestAPI_List(t *testing.T) {
	var gotQuery string
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":"n1","title":"Lab ready","message":"CBC","type":"lab_result","priority":"high","status":"unread","created_at":"2024-01-20T10:00:00Z","patient":{"id":"p1","name":"Rahul Sharma"}},
			{"id":"n2","title":"Stock low","message":"Amoxicillin","type":"inventory_low","priority":"medium","status":"read","created_at":"2024-01-19T10:00:00Z"}
		]}`)
	}), true)

	items, err := api.List(context.Background(), ListParams{Status: StatusUnread})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "status=unread", gotQuery)
	assert.Equal(t, TypeLabResult, items[0].Type)
	require.NotNil(t, items[0].Patient)
	assert.Equal(t, "Rahul Sharma", items[0].Patient.Name)
	assert.Nil(t, items[1].Patient)
}

func TestAPI_List_NumericIDs(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":7,"title":"Lab ready","message":"CBC","type":"lab_result","priority":"high","status":"unread","created_at":"2024-01-20T10:00:00Z","patient":{"id":3,"name":"Rahul Sharma"}},
			{"id":8,"title":"Stock low","message":"Amoxicillin","type":"inventory_low","priority":"medium","status":"read","created_at":"2024-01-19T10:00:00Z","patient":null}
		]}`)
	}), true)

	items, err := api.List(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "7", items[0].ID)
	require.NotNil(t, items[0].Patient)
	assert.Equal(t, "3", items[0].Patient.ID)
	assert.Equal(t, "Rahul Sharma", items[0].Patient.Name)
	assert.Equal(t, StatusUnread, items[0].Status)
	assert.Equal(t, time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC), items[0].CreatedAt.UTC())
	assert.Equal(t, "8", items[1].ID)
	assert.Nil(t, items[1].Patient)
}

func TestSynchronizer_Fetch_NumericIDs(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":7,"title":"Lab ready","type":"lab_result","priority":"high","status":"unread","created_at":"2024-01-20T10:00:00Z"},
			{"id":9,"title":"Reminder","type":"appointment_reminder","priority":"low","status":"unread","created_at":"2024-01-20T09:00:00Z"}
		]}`)
	}), true)
	sync := NewSynchronizer(api, time.Hour, logger.Discard())

	_, err := sync.Fetch(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, sync.UnreadCount())
}

func TestAPI_NotAcknowledged(t *testing.T) {
	tests := []struct {
		name    string
		online  bool
		handler http.HandlerFunc
	}{
		{
			name:   "offline mock",
			online: false,
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("request must not reach the server")
			},
		},
		{
			name:   "server error falls back to mock",
			online: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name:   "explicit failure",
			online: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"success":false,"message":"Notification not found"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newAPI(t, tt.handler, tt.online)

			err := api.MarkRead(context.Background(), "n1")
			assert.ErrorIs(t, err, ErrNotAcknowledged)

			_, err = api.List(context.Background(), ListParams{})
			assert.ErrorIs(t, err, ErrNotAcknowledged)
		})
	}
}

func TestAPI_Actions(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call

	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{method: r.Method, path: r.URL.Path, body: string(body)})
		_, _ = io.WriteString(w, `{"success":true,"message":"ok"}`)
	}), true)
	ctx := context.Background()

	require.NoError(t, api.MarkRead(ctx, "n1"))
	require.NoError(t, api.MarkUnread(ctx, "n1"))
	require.NoError(t, api.Archive(ctx, "n1"))
	require.NoError(t, api.Unarchive(ctx, "n1"))
	require.NoError(t, api.MarkAllRead(ctx))
	require.NoError(t, api.Delete(ctx, "n1"))
	require.NoError(t, api.BulkDelete(ctx, []string{"n2", "n3"}))

	require.Len(t, calls, 7)
	assert.Equal(t, call{method: http.MethodPut, path: "/notifications/n1/mark-read"}, calls[0])
	assert.Equal(t, call{method: http.MethodPut, path: "/notifications/n1/mark-unread"}, calls[1])
	assert.Equal(t, call{method: http.MethodPut, path: "/notifications/n1/archive"}, calls[2])
	assert.Equal(t, call{method: http.MethodPut, path: "/notifications/n1/unarchive"}, calls[3])
	assert.Equal(t, call{method: http.MethodPut, path: "/notifications/mark-all-read"}, calls[4])
	assert.Equal(t, call{method: http.MethodDelete, path: "/notifications/n1"}, calls[5])
	assert.Equal(t, http.MethodDelete, calls[6].method)
	assert.Equal(t, "/notifications/bulk-delete", calls[6].path)

	var bulk struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[6].body), &bulk))
	assert.Equal(t, []string{"n2", "n3"}, bulk.IDs)
}

func TestAPI_Stats(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications-stats", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"data":{"total":5,"unread":2,"today":1,"priority_stats":{"urgent":1,"high":2,"medium":1,"low":1}}}`)
	}), true)

	stats, err := api.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Unread)
	assert.Equal(t, PriorityStats{Urgent: 1, High: 2, Medium: 1, Low: 1}, stats.PriorityStats)
}
