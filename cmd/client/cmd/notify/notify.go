package notify

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// NotifyCmd - родительская команда для работы с уведомлениями
var NotifyCmd = &cobra.Command{
	Use:     "notify",
	Aliases: []string{"notifications"},
	Short:   "Уведомления персонала",
	Long: `Просмотр и обработка уведомлений: список, статистика,
отметка прочитанными, архивирование и удаление.`,
}

func init() {
	NotifyCmd.AddCommand(
		ListCmd,
		StatsCmd,
		actionCmd("read", "Отметить прочитанным", markRead),
		actionCmd("unread", "Отметить непрочитанным", markUnread),
		actionCmd("archive", "Архивировать", archive),
		actionCmd("unarchive", "Вернуть из архива", unarchive),
		DeleteCmd,
		ReadAllCmd,
	)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
