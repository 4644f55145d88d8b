package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client/session"
)

var (
	loginEmail    string
	loginPassword string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему",
	Long: `Аутентификация на сервере.

Если сервер недоступен, вход выполняется по встроенным демо-учетным записям.
Сессия сохраняется локально для последующих команд.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			if email, err = readLine("Email: "); err != nil {
				return err
			}
		}

		password := loginPassword
		if password == "" {
			if password, err = readPassword("Пароль: "); err != nil {
				return err
			}
		}

		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		sess, err := env.App.Sessions().Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", explain(err))
		}

		fmt.Println()
		color.Green("✅ Вход выполнен: %s (%s)", sess.User.Name, sess.User.Role)
		if session.IsLocalToken(sess.Token) {
			color.Yellow("⚠️  Сервер недоступен, используется офлайн-сессия")
		}

		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "адрес почты")
	LoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "пароль (по умолчанию запрашивается)")
}
