package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsync/internal/utils/logger"
)

func newTestMonitor(url string, timeout time.Duration) *Monitor {
	return New(Config{HealthURL: url, Interval: time.Hour, Timeout: timeout}, logger.Discard())
}

func TestMonitor_InitialStatus(t *testing.T) {
	m := newTestMonitor("http://127.0.0.1:1/health", time.Second)

	s := m.Status()
	assert.True(t, s.IsOnline)
	assert.Equal(t, BackendChecking, s.BackendStatus)
	assert.Nil(t, s.LastChecked)
}

func TestMonitor_CheckBackendStatus(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected BackendStatus
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			},
			expected: BackendOnline,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			expected: BackendOffline,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expected: BackendOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			m := newTestMonitor(srv.URL+"/health", time.Second)
			before := time.Now()
			s := m.CheckBackendStatus(context.Background())

			assert.Equal(t, tt.expected, s.BackendStatus)
			require.NotNil(t, s.LastChecked)
			assert.False(t, s.LastChecked.Before(before))
		})
	}
}

func TestMonitor_CheckBackendStatus_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	m := newTestMonitor(srv.URL, 50*time.Millisecond)

	start := time.Now()
	s := m.CheckBackendStatus(context.Background())

	assert.Equal(t, BackendOffline, s.BackendStatus)
	assert.NotNil(t, s.LastChecked)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestMonitor_CheckBackendStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := newTestMonitor(url, time.Second)
	s := m.CheckBackendStatus(context.Background())

	assert.Equal(t, BackendOffline, s.BackendStatus)
	assert.NotNil(t, s.LastChecked)
}

func TestMonitor_HandleConnectivity(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL, time.Second)

	m.HandleConnectivity(context.Background(), false)
	s := m.Status()
	assert.False(t, s.IsOnline)
	assert.Equal(t, BackendOffline, s.BackendStatus)
	assert.Equal(t, int32(0), probes.Load(), "offline transition must not probe")
	assert.False(t, m.IsOnline())

	m.HandleConnectivity(context.Background(), true)
	s = m.Status()
	assert.True(t, s.IsOnline)
	assert.Equal(t, BackendOnline, s.BackendStatus)
	assert.Equal(t, int32(1), probes.Load())
}

func TestMonitor_OfflineDuringProbe(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL, 5*time.Second)
	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	result := make(chan NetworkStatus, 1)
	go func() {
		result <- m.CheckBackendStatus(context.Background())
	}()

	<-started
	m.HandleConnectivity(context.Background(), false)
	close(release)

	s := <-result
	assert.False(t, s.IsOnline)
	assert.Equal(t, BackendOffline, s.BackendStatus)

	s = m.Status()
	assert.False(t, s.IsOnline)
	assert.Equal(t, BackendOffline, s.BackendStatus)

	last := <-updates
	assert.False(t, last.IsOnline)
	assert.Equal(t, BackendOffline, last.BackendStatus)
}

func TestMonitor_ProbeWhileOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL, time.Second)
	m.HandleConnectivity(context.Background(), false)

	s := m.CheckBackendStatus(context.Background())
	assert.False(t, s.IsOnline)
	assert.Equal(t, BackendOffline, s.BackendStatus)
	assert.NotNil(t, s.LastChecked)
}

func TestMonitor_Watch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL, time.Second)
	events := make(chan bool)
	done := make(chan struct{})

	go func() {
		m.Watch(context.Background(), events)
		close(done)
	}()

	events <- false
	events <- true
	close(events)
	<-done

	s := m.Status()
	assert.True(t, s.IsOnline)
	assert.Equal(t, BackendOnline, s.BackendStatus)
}

func TestMonitor_StartStop(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(Config{HealthURL: srv.URL, Interval: 20 * time.Millisecond, Timeout: time.Second}, logger.Discard())
	m.Start(context.Background())
	m.Start(context.Background())

	assert.Eventually(t, func() bool {
		return probes.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()

	stopped := probes.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stopped, probes.Load())
	assert.Equal(t, BackendOnline, m.Status().BackendStatus)
}

func TestMonitor_Subscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL, time.Second)
	ch, unsubscribe := m.Subscribe()

	initial := <-ch
	assert.Equal(t, BackendChecking, initial.BackendStatus)

	m.CheckBackendStatus(context.Background())
	updated := <-ch
	assert.Equal(t, BackendOnline, updated.BackendStatus)

	// изменение снимка не влияет на монитор
	updated.LastChecked = nil
	updated.IsOnline = false
	assert.NotNil(t, m.Status().LastChecked)
	assert.True(t, m.Status().IsOnline)

	unsubscribe()
	unsubscribe()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestInterfaceWatcher_Run(t *testing.T) {
	states := []bool{true, true, false, false, true}
	var idx atomic.Int32

	w := NewInterfaceWatcher(5*time.Millisecond, logger.Discard())
	w.check = func() bool {
		i := int(idx.Add(1)) - 1
		if i >= len(states) {
			return states[len(states)-1]
		}
		return states[i]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := w.Run(ctx)
	assert.False(t, <-events)
	assert.True(t, <-events)

	cancel()
	for range events {
	}
}
