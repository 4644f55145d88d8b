package session

import (
	"context"
	"errors"
	"fmt"
)

// CredentialProvider проверяет учетные данные и выдает токен
type CredentialProvider interface {
	Name() string
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Register создает учетную запись и возвращает сообщение сервера
	Register(ctx context.Context, req RegisterRequest) (string, error)
	Logout(ctx context.Context) error
}

// Chain опрашивает провайдеров по порядку. Следующий провайдер используется
// только если предыдущий вернул ErrBackendUnavailable.
type Chain []CredentialProvider

func (c Chain) Name() string {
	return "chain"
}

func (c Chain) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var lastErr error
	for _, p := range c {
		res, err := p.Login(ctx, email, password)
		if err == nil {
			if res.Provider == "" {
				res.Provider = p.Name()
			}
			return res, nil
		}
		if !errors.Is(err, ErrBackendUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, c.exhausted(lastErr)
}

func (c Chain) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var lastErr error
	for _, p := range c {
		msg, err := p.Register(ctx, req)
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, ErrBackendUnavailable) {
			return "", err
		}
		lastErr = err
	}
	return "", c.exhausted(lastErr)
}

func (c Chain) Logout(ctx context.Context) error {
	var lastErr error
	for _, p := range c {
		err := p.Logout(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrBackendUnavailable) {
			return err
		}
		lastErr = err
	}
	return c.exhausted(lastErr)
}

func (c Chain) exhausted(lastErr error) error {
	if lastErr == nil {
		return fmt.Errorf("%w: no providers configured", ErrBackendUnavailable)
	}
	return lastErr
}
