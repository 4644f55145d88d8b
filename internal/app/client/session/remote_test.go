package session

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsync/internal/utils/logger"
)

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestRemoteProvider_Login(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
		wantID  string
	}{
		{
			name:    "status envelope",
			handler: respond(http.StatusOK, `{"status":"success","data":{"user":{"id":"u1","name":"Admin","email":"admin@hospital.com","role":"admin"},"token":"tok"}}`),
			wantID:  "u1",
		},
		{
			name:    "success envelope with numeric id",
			handler: respond(http.StatusOK, `{"success":true,"data":{"user":{"id":7,"name":"Admin","email":"admin@hospital.com","role":"admin"},"token":"tok"}}`),
			wantID:  "7",
		},
		{
			name:    "empty data",
			handler: respond(http.StatusOK, `{"success":true,"data":{}}`),
			wantErr: ErrInvalidResponseFormat,
		},
		{
			name:    "missing token",
			handler: respond(http.StatusOK, `{"status":"success","data":{"user":{"id":"u1","email":"a@b.com"}}}`),
			wantErr: ErrInvalidResponseFormat,
		},
		{
			name:    "no success marker",
			handler: respond(http.StatusOK, `{"data":{"user":{"id":"u1"},"token":"tok"}}`),
			wantErr: ErrInvalidResponseFormat,
		},
		{
			name:    "array body",
			handler: respond(http.StatusOK, `[]`),
			wantErr: ErrInvalidResponseFormat,
		},
		{
			name:    "explicit failure",
			handler: respond(http.StatusOK, `{"success":false,"message":"Account locked"}`),
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unauthorized",
			handler: respond(http.StatusUnauthorized, `{"message":"Invalid credentials"}`),
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unprocessable",
			handler: respond(http.StatusUnprocessableEntity, `{"detail":"validation failed"}`),
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "server error",
			handler: respond(http.StatusInternalServerError, `{"message":"db down"}`),
			wantErr: ErrServerFailure,
		},
		{
			name:    "malformed",
			handler: respond(http.StatusOK, `<html>`),
			wantErr: ErrInvalidResponseFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewRemoteProvider(newRequestClient(t, tt.handler), logger.Discard())

			res, err := p.Login(context.Background(), "admin@hospital.com", "admin123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, res.User.ID)
			assert.Equal(t, "admin@hospital.com", res.User.Email)
			assert.Equal(t, "tok", res.Token)
			assert.Equal(t, "remote", res.Provider)
		})
	}
}

func TestRemoteProvider_Login_SendsCredentials(t *testing.T) {
	var got map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		respond(http.StatusOK, `{"status":"success","data":{"user":{"id":"1","email":"a@b.com"},"token":"t"}}`)(w, r)
	})

	p := NewRemoteProvider(newRequestClient(t, handler), logger.Discard())
	_, err := p.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "pw"}, got)
}

func TestRemoteProvider_Login_Unreachable(t *testing.T) {
	p := NewRemoteProvider(newRequestClient(t, nil), logger.Discard())

	_, err := p.Login(context.Background(), "admin@hospital.com", "admin123")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRemoteProvider_Register(t *testing.T) {
	req := RegisterRequest{Name: "Jane", Email: "jane@b.com", Password: "secret1", ConfirmPassword: "secret1"}

	t.Run("created", func(t *testing.T) {
		var got map[string]any
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			respond(http.StatusCreated, `{"status":"success","message":"User registered"}`)(w, r)
		})
		p := NewRemoteProvider(newRequestClient(t, handler), logger.Discard())

		msg, err := p.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "User registered", msg)
		assert.NotContains(t, got, "ConfirmPassword")
		assert.Equal(t, "jane@b.com", got["email"])
	})

	t.Run("conflict", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, respond(http.StatusConflict, `{"message":"email taken"}`)), logger.Discard())

		_, err := p.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrRegistrationFailed)
		assert.Contains(t, err.Error(), "email taken")
	})

	t.Run("unreachable", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, nil), logger.Discard())

		_, err := p.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	})
}

func TestRemoteProvider_Profile(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, respond(http.StatusOK, `{"status":"success","data":{"user":{"id":"1","name":"Admin","email":"admin@hospital.com","role":"admin"}}}`)), logger.Discard())

		user, err := p.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Role)
	})

	t.Run("user as data", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, respond(http.StatusOK, `{"success":true,"data":{"id":"1","email":"admin@hospital.com"}}`)), logger.Discard())

		user, err := p.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin@hospital.com", user.Email)
	})

	t.Run("unauthorized", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, respond(http.StatusUnauthorized, `{"message":"expired"}`)), logger.Discard())

		_, err := p.Profile(context.Background())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("unreachable", func(t *testing.T) {
		p := NewRemoteProvider(newRequestClient(t, nil), logger.Discard())

		_, err := p.Profile(context.Background())
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	})
}
