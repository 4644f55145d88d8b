package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"medsync/internal/app/client/request"
	"medsync/internal/utils/logger"
)

// MockProvider is a mock implementation of the CredentialProvider interface for testing
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *MockProvider) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*AuthResult)
	return res, args.Error(1)
}

func (m *MockProvider) Register(ctx context.Context, req RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProfile is a mock implementation of the ProfileFetcher interface for testing
type MockProfile struct {
	mock.Mock
}

func (m *MockProfile) Profile(ctx context.Context) (*User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

var errUnavailable = errors.Join(ErrBackendUnavailable, errors.New("connection refused"))

type online bool

func (o online) IsOnline() bool { return bool(o) }

// newRequestClient returns a request client pointing at handler; a nil handler means an unreachable server
func newRequestClient(t *testing.T, handler http.Handler) *request.Client {
	t.Helper()

	url := "http://127.0.0.1:1"
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		url = srv.URL
	}

	return request.New(request.Config{
		BaseURL:     url,
		Timeout:     time.Second,
		MaxAttempts: 1,
		RetryDelay:  0,
	}, online(true), logger.Discard())
}
