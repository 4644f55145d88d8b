package types

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"medsync/internal/app/client"
)

type contextKey string

const EnvKey contextKey = "medsync_env"

// Env - окружение команды: собранное приложение и формат вывода
type Env struct {
	App  *client.App
	JSON bool
}

var ErrNotInitialized = errors.New("приложение не инициализировано")

func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, EnvKey, env)
}

// FromCommand достает окружение, сохраненное корневой командой
func FromCommand(cmd *cobra.Command) (*Env, error) {
	env, ok := cmd.Context().Value(EnvKey).(*Env)
	if !ok || env == nil || env.App == nil {
		return nil, ErrNotInitialized
	}
	return env, nil
}

// RequireSession возвращает окружение, если пользователь вошел в систему
func RequireSession(cmd *cobra.Command) (*Env, error) {
	env, err := FromCommand(cmd)
	if err != nil {
		return nil, err
	}
	if !env.App.Sessions().IsAuthenticated() {
		return nil, errors.New("необходимо войти в систему: medsync auth login")
	}
	return env, nil
}
