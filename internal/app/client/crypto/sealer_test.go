package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Облегченные параметры, чтобы тесты не тратили 64 MB на каждый ключ
var testParams = Params{Time: 1, Memory: 1024, Threads: 1}

func TestSealer_SealOpen(t *testing.T) {
	salt, err := GenerateRandomBytes(saltLength)
	require.NoError(t, err)

	s, err := NewSealer("correct horse", salt, testParams)
	require.NoError(t, err)

	sealed, err := s.Seal("token-123")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "token-123")

	other, err := s.Seal("token-123")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, other, "nonce must differ")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token-123", plain)
}

func TestSealer_WrongPassphrase(t *testing.T) {
	salt, err := GenerateRandomBytes(saltLength)
	require.NoError(t, err)

	s1, err := NewSealer("one", salt, testParams)
	require.NoError(t, err)
	s2, err := NewSealer("two", salt, testParams)
	require.NoError(t, err)

	sealed, err := s1.Seal("secret")
	require.NoError(t, err)

	_, err = s2.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestSealer_OpenGarbage(t *testing.T) {
	salt, err := GenerateRandomBytes(saltLength)
	require.NoError(t, err)
	s, err := NewSealer("pw", salt, testParams)
	require.NoError(t, err)

	for _, input := range []string{"not base64!", "", "AAAA"} {
		_, err := s.Open(input)
		assert.ErrorIs(t, err, ErrDecrypt, input)
	}
}

func TestNewSealer_Invalid(t *testing.T) {
	_, err := NewSealer("", make([]byte, saltLength), testParams)
	assert.Error(t, err)

	_, err = NewSealer("pw", []byte("short"), testParams)
	assert.Error(t, err)
}

func TestLoadOrCreateSalt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.salt")

	salt, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Len(t, salt, saltLength)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(saltPermissions), info.Mode().Perm())

	again, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Equal(t, salt, again)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	_, err = LoadOrCreateSalt(path)
	assert.Error(t, err)
}

func TestClearMemory(t *testing.T) {
	data := []byte{1, 2, 3}
	ClearMemory(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
