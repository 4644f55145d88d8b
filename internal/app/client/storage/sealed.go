package storage

import (
	"context"
	"fmt"
)

// Sealer шифрует значения перед записью
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// SealedStore хранит значения во внутреннем хранилище в зашифрованном виде
type SealedStore struct {
	inner  Store
	sealer Sealer
}

func NewSealedStore(inner Store, sealer Sealer) *SealedStore {
	return &SealedStore{inner: inner, sealer: sealer}
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	value, err := s.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", key, err)
	}
	return value, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}
