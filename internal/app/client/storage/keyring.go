package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "medsync"

// KeyringStore хранит значения в системном хранилище секретов
type KeyringStore struct {
	ring keyring.Keyring
}

func NewKeyringStore(cfg keyring.Config) (*KeyringStore, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

func (s *KeyringStore) Get(_ context.Context, key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (s *KeyringStore) Set(_ context.Context, key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Delete(_ context.Context, key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Close() error {
	return nil
}
