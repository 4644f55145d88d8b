package notify

import (
	"fmt"

	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
)

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Статистика уведомлений",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.RequireSession(cmd)
		if err != nil {
			return err
		}

		stats, err := env.App.Notifications().FetchStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка загрузки статистики: %w", err)
		}

		if env.JSON {
			return printJSON(stats)
		}

		fmt.Printf("Всего:         %d\n", stats.Total)
		fmt.Printf("Непрочитанных: %d\n", stats.Unread)
		fmt.Printf("За сегодня:    %d\n", stats.Today)
		fmt.Println()
		fmt.Printf("urgent: %d  high: %d  medium: %d  low: %d\n",
			stats.PriorityStats.Urgent,
			stats.PriorityStats.High,
			stats.PriorityStats.Medium,
			stats.PriorityStats.Low)
		return nil
	},
}
