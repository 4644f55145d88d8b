package auth

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		if !env.App.Sessions().IsAuthenticated() {
			fmt.Println("Вы не вошли в систему")
			return nil
		}

		if err := env.App.Sessions().Logout(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		color.Green("✅ Сессия завершена")
		return nil
	},
}
