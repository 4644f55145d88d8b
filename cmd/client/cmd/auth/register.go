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
	registerName  string
	registerEmail string
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Регистрация нового пользователя",
	Long: `Создание учетной записи. После регистрации выполните вход
командой medsync auth login.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация ===")
		fmt.Println()

		req := session.RegisterRequest{Name: registerName, Email: registerEmail}
		if req.Name == "" {
			if req.Name, err = readLine("Имя: "); err != nil {
				return err
			}
		}
		if req.Email == "" {
			if req.Email, err = readLine("Email: "); err != nil {
				return err
			}
		}
		if req.Password, err = readPassword("Пароль: "); err != nil {
			return err
		}
		if req.ConfirmPassword, err = readPassword("Повторите пароль: "); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		msg, err := env.App.Sessions().Register(ctx, req)
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", explain(err))
		}

		if msg == "" {
			msg = "Регистрация выполнена"
		}
		color.Green("✅ %s", msg)
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&registerName, "name", "n", "", "имя")
	RegisterCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "адрес почты")
}
