// Package crypto шифрует значения хранилища сессии ключом, полученным из пароля.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// Параметры Argon2id
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // AES-256

	saltLength      = 16
	saltPermissions = 0600
)

var ErrDecrypt = errors.New("ошибка расшифровки")

// Params - параметры вывода ключа
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

func DefaultParams() Params {
	return Params{Time: argon2Time, Memory: argon2Memory, Threads: argon2Threads}
}

// Sealer шифрует и расшифровывает строки с помощью AES-GCM
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer выводит ключ из пароля и соли
func NewSealer(passphrase string, salt []byte, params Params) (*Sealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("пароль хранилища не задан")
	}
	if len(salt) < saltLength {
		return nil, fmt.Errorf("соль слишком короткая")
	}

	key := argon2.IDKey([]byte(passphrase), salt, params.Time, params.Memory, params.Threads, argon2KeyLen)
	defer ClearMemory(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal шифрует значение; результат в base64 пригоден для строкового хранилища
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce, err := GenerateRandomBytes(s.aead.NonceSize())
	if err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open расшифровывает значение, полученное от Seal
func (s *Sealer) Open(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: шифротекст слишком короткий", ErrDecrypt)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

// LoadOrCreateSalt читает соль из файла или создает новую
func LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) < saltLength {
			return nil, fmt.Errorf("файл соли поврежден: %s", path)
		}
		return salt, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения соли: %w", err)
	}

	salt, err = GenerateRandomBytes(saltLength)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(path, salt, saltPermissions); err != nil {
		return nil, fmt.Errorf("ошибка записи соли: %w", err)
	}

	return salt, nil
}

// GenerateRandomBytes генерирует криптографически безопасные случайные байты
func GenerateRandomBytes(size int) ([]byte, error) {
	bytes := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}

// ClearMemory затирает чувствительные данные
func ClearMemory(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
