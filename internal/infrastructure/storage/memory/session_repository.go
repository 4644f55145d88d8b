package memory

import (
	"context"
	"sync"
	"time"

	"medsync/internal/domain/session"
)

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = sessionEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *SessionRepository) Validate(_ context.Context, tokenHash string) (string, error) {
	r.mu.RLock()
	entry, ok := r.sessions[tokenHash]
	r.mu.RUnlock()

	if !ok {
		return "", session.ErrInvalidSession
	}
	if !entry.expiresAt.After(r.now()) {
		r.mu.Lock()
		delete(r.sessions, tokenHash)
		r.mu.Unlock()
		return "", session.ErrInvalidSession
	}
	return entry.userID, nil
}

func (r *SessionRepository) Delete(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, tokenHash)
	return nil
}
