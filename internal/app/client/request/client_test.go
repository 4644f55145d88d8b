package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsync/internal/utils/logger"
)

type fakeOnline struct {
	online atomic.Bool
}

func newFakeOnline(v bool) *fakeOnline {
	f := &fakeOnline{}
	f.online.Store(v)
	return f
}

func (f *fakeOnline) IsOnline() bool { return f.online.Load() }

type staticToken string

func (s staticToken) Token() string { return string(s) }

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestClient(t *testing.T, url string, online OnlineChecker) (*Client, *sleepRecorder) {
	t.Helper()

	c := New(Config{
		BaseURL:        url,
		Timeout:        time.Second,
		MaxAttempts:    2,
		RetryDelay:     time.Second,
		MockLatencyMin: 100 * time.Millisecond,
		MockLatencyMax: 400 * time.Millisecond,
	}, online, logger.Discard())

	rec := &sleepRecorder{}
	c.sleep = rec.sleep
	return c, rec
}

func TestClient_Do_Success(t *testing.T) {
	var gotAuth, gotContentType, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL+"/api/", newFakeOnline(true))
	c.SetTokenSource(staticToken("abc"))

	out := c.Post(context.Background(), "/patients", map[string]string{"name": "x"})

	require.True(t, out.Success)
	assert.Equal(t, SourceAPI, out.Source)
	assert.Equal(t, http.StatusCreated, out.StatusCode)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "/api/patients", gotPath)

	var body struct {
		ID int `json:"id"`
	}
	require.NoError(t, out.Decode(&body))
	assert.Equal(t, 42, body.ID)
}

func TestClient_Do_Offline(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv.URL, newFakeOnline(false))

	out := c.Get(context.Background(), "/patients")

	assert.True(t, out.Success)
	assert.Equal(t, SourceMock, out.Source)
	assert.Equal(t, int32(0), hits.Load())
	require.Len(t, rec.delays, 1)
	assert.GreaterOrEqual(t, rec.delays[0], 100*time.Millisecond)
	assert.LessOrEqual(t, rec.delays[0], 400*time.Millisecond)

	var patients []map[string]any
	require.NoError(t, out.Decode(&patients))
	assert.NotEmpty(t, patients)
}

func TestClient_Do_RetriesThenMock(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		statusCode int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"boom"}`))
			},
			statusCode: http.StatusInternalServerError,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			statusCode: http.StatusNotFound,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			c, rec := newTestClient(t, srv.URL, newFakeOnline(true))

			out := c.Get(context.Background(), "/doctors")

			assert.True(t, out.Success)
			assert.Equal(t, SourceMock, out.Source)
			assert.NotEmpty(t, out.Message)
			assert.Equal(t, tt.statusCode, out.StatusCode)
			assert.Equal(t, int32(2), hits.Load())
			// задержка перед повтором и имитация задержки ответа
			require.Len(t, rec.delays, 2)
			assert.Equal(t, time.Second, rec.delays[0])
		})
	}
}

func TestClient_Do_RetrySucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, newFakeOnline(true))

	out := c.Get(context.Background(), "/appointments")
	assert.Equal(t, SourceAPI, out.Source)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_Do_LinearBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv.URL, newFakeOnline(true))
	c.cfg.MaxAttempts = 4

	c.Get(context.Background(), "/staff")

	require.Len(t, rec.delays, 4)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, rec.delays[:3])
}

func TestClient_Do_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := newTestClient(t, url, newFakeOnline(true))

	out := c.Get(context.Background(), "/billing")
	assert.True(t, out.Success)
	assert.Equal(t, SourceMock, out.Source)
	assert.Contains(t, out.Message, ErrUnavailable.Error())
	assert.Zero(t, out.StatusCode)
}

func TestClient_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := newTestClient(t, srv.URL, newFakeOnline(true))
	c.cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	out := c.Get(context.Background(), "/patients")

	assert.Equal(t, SourceMock, out.Source)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_Call(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv.URL, newFakeOnline(true))

		out, err := c.Call(context.Background(), http.MethodPost, "/auth/login", nil)
		assert.Nil(t, out)
		se, ok := AsStatusError(err)
		require.True(t, ok)
		assert.True(t, se.IsUnauthorized())
		assert.Equal(t, "Invalid credentials", se.Message)
		assert.Equal(t, int32(1), hits.Load())
		assert.False(t, IsUnavailable(err))
	})

	t.Run("server error is retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv.URL, newFakeOnline(true))

		_, err := c.Call(context.Background(), http.MethodGet, "/auth/profile", nil)
		se, ok := AsStatusError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv.URL, newFakeOnline(true))

		_, err := c.Call(context.Background(), http.MethodGet, "/auth/profile", nil)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("offline", func(t *testing.T) {
		c, _ := newTestClient(t, "http://127.0.0.1:1", newFakeOnline(false))

		_, err := c.Call(context.Background(), http.MethodGet, "/auth/profile", nil)
		assert.ErrorIs(t, err, ErrOffline)
		assert.True(t, IsUnavailable(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, _ := newTestClient(t, url, newFakeOnline(true))

		_, err := c.Call(context.Background(), http.MethodGet, "/auth/profile", nil)
		assert.True(t, IsUnavailable(err))
	})
}

func TestClient_Call_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, newFakeOnline(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Call(ctx, http.MethodGet, "/health", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestMockData(t *testing.T) {
	tests := []struct {
		endpoint string
		empty    bool
		field    string
	}{
		{endpoint: "/patients", field: "blood_group"},
		{endpoint: "/patients/1/history", field: "blood_group"},
		{endpoint: "/doctors?available=true", field: "specialization"},
		{endpoint: "/appointments", field: "doctor_name"},
		{endpoint: "/medicines", field: "stock_level"},
		{endpoint: "/inventory/low", field: "stock_level"},
		{endpoint: "/staff", field: "shift"},
		{endpoint: "/billing", field: "due_date"},
		{endpoint: "/invoices/INV-1", field: "due_date"},
		{endpoint: "/reports", empty: true},
		{endpoint: "", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			var items []map[string]any
			require.NoError(t, json.Unmarshal(MockData(tt.endpoint), &items))

			if tt.empty {
				assert.Empty(t, items)
				return
			}
			require.NotEmpty(t, items)
			assert.Contains(t, items[0], tt.field)
		})
	}
}

func TestOutcome_Decode_Empty(t *testing.T) {
	out := &Outcome{Source: SourceAPI}
	var v map[string]any
	assert.ErrorIs(t, out.Decode(&v), ErrMalformedResponse)
}
