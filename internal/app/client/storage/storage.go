// Package storage - долговременное key-value хранилище сессии клиента.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/99designs/keyring"
	"github.com/redis/go-redis/v9"

	"medsync/internal/app/client/config"
	"medsync/internal/app/client/crypto"
)

// Слоты сессии
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrNotFound = errors.New("key not found")

// Store хранит строковые значения по ключу
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New создает хранилище по драйверу из конфигурации. Если задан пароль
// хранилища, значения шифруются; связка ключей шифрует их сама.
func New(cfg *config.Config) (Store, error) {
	store, err := open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.StoragePassphrase == "" || cfg.StorageDriver == config.StorageKeyring || cfg.StorageDriver == config.StorageMemory {
		return store, nil
	}

	salt, err := crypto.LoadOrCreateSalt(cfg.SaltPath())
	if err != nil {
		store.Close()
		return nil, err
	}
	sealer, err := crypto.NewSealer(cfg.StoragePassphrase, salt, crypto.DefaultParams())
	if err != nil {
		store.Close()
		return nil, err
	}

	return NewSealedStore(store, sealer), nil
}

func open(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageFile:
		return NewFileStore(cfg.StoragePath)
	case config.StorageSQLite:
		return NewSQLiteStore(cfg.StoragePath)
	case config.StorageKeyring:
		return NewKeyringStore(keyring.Config{
			ServiceName: serviceName,
			AllowedBackends: []keyring.BackendType{
				keyring.KeychainBackend,
				keyring.SecretServiceBackend,
				keyring.WinCredBackend,
				keyring.PassBackend,
				keyring.FileBackend,
			},
			FileDir:                  cfg.StoragePath,
			FilePasswordFunc:         keyring.FixedStringPrompt("medsync-file-key"),
			KeychainTrustApplication: true,
		})
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 3 * time.Second,
		})
		return NewRedisStore(client, cfg.RedisPrefix), nil
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %s", cfg.StorageDriver)
	}
}
