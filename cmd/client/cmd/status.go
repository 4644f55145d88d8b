package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить доступность сервера",
	Long:  `Разовая проверка сервера и вывод состояния сети и текущей сессии.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		st := env.App.Monitor().CheckBackendStatus(cmd.Context())
		sessions := env.App.Sessions()

		if env.JSON {
			out := struct {
				Network status.NetworkStatus `json:"network"`
				Session string               `json:"session"`
				Server  string               `json:"server"`
			}{st, sessions.State().String(), env.App.Config().BaseURL}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Сервер:  %s\n", env.App.Config().BaseURL)
		fmt.Printf("Сеть:    %s\n", onlineLabel(st.IsOnline))
		fmt.Printf("Бэкенд:  %s\n", backendLabel(st.BackendStatus))
		if st.LastChecked != nil {
			fmt.Printf("Проверено: %s\n", st.LastChecked.Local().Format(time.DateTime))
		}

		if s := sessions.Current(); s != nil && s.User != nil {
			fmt.Printf("Сессия:  %s (%s)\n", s.User.Email, s.User.Role)
		} else {
			fmt.Println("Сессия:  нет")
		}
		return nil
	},
}

func onlineLabel(online bool) string {
	if online {
		return color.GreenString("есть")
	}
	return color.RedString("нет")
}

func backendLabel(s status.BackendStatus) string {
	switch s {
	case status.BackendOnline:
		return color.GreenString(string(s))
	case status.BackendOffline:
		return color.RedString(string(s))
	default:
		return color.YellowString(string(s))
	}
}
