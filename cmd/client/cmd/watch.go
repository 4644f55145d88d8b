package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client"
)

var alertInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Фоновый режим: мониторинг сети и уведомлений",
	Long: `Запускает монитор сервера, агент восстановления сессии и опрос
уведомлений. Выводит смену состояния сети и сигнал о новых уведомлениях.
Завершение по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromCommand(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go printUpdates(ctx, env.App)

		color.Cyan("Наблюдение запущено. Ctrl+C для выхода.")
		return env.App.Run(ctx)
	},
}

func printUpdates(ctx context.Context, app *client.App) {
	updates, unsubscribe := app.Monitor().Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(alertInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			fmt.Printf("[%s] сеть: %s, сервер: %s\n",
				time.Now().Format(time.TimeOnly),
				onlineLabel(st.IsOnline),
				backendLabel(st.BackendStatus))
		case <-ticker.C:
			sync := app.Notifications()
			if sync.ShowNewNotificationAlert() {
				color.Yellow("🔔 Новые уведомления: непрочитанных %d", sync.UnreadCount())
				sync.AcknowledgeAlert()
			}
		}
	}
}

func init() {
	watchCmd.Flags().DurationVar(&alertInterval, "alert-interval", time.Second, "период проверки новых уведомлений")
}
