package auth

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client/session"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Текущий пользователь",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		sess := env.App.Sessions().Current()
		if sess == nil || sess.User == nil {
			fmt.Println("Вы не вошли в систему")
			return nil
		}

		if env.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sess.User)
		}

		fmt.Printf("Имя:   %s\n", sess.User.Name)
		fmt.Printf("Email: %s\n", sess.User.Email)
		fmt.Printf("Роль:  %s\n", sess.User.Role)
		if session.IsLocalToken(sess.Token) {
			color.Yellow("Сессия: офлайн (встроенная учетная запись)")
		} else {
			color.Green("Сессия: сервер")
		}
		return nil
	},
}
