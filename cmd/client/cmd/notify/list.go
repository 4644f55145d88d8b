package notify

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client/notification"
)

var (
	listStatus   string
	listPriority string
	listType     string
	listLimit    int
	listPage     int
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список уведомлений",
	Long: `Загрузка уведомлений с сервера с фильтрами по статусу,
приоритету и типу. Поддерживается пагинация через --limit и --page.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.RequireSession(cmd)
		if err != nil {
			return err
		}

		sync := env.App.Notifications()
		items, err := sync.Fetch(cmd.Context(), notification.ListParams{
			Status:   notification.Status(listStatus),
			Priority: notification.Priority(listPriority),
			Type:     notification.Type(listType),
			Limit:    listLimit,
			Page:     listPage,
		})
		if err != nil {
			return fmt.Errorf("ошибка загрузки уведомлений: %w", err)
		}

		if env.JSON {
			return printJSON(items)
		}
		return printTable(items, sync.UnreadCount())
	},
}

func printTable(items []notification.Notification, unread int) error {
	if len(items) == 0 {
		fmt.Println("Уведомлений нет")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tПриоритет\tСтатус\tЗаголовок\tПациент\tСоздано\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t\n")

	for _, n := range items {
		patient := "-"
		if n.Patient != nil && n.Patient.Name != "" {
			patient = n.Patient.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			n.ID,
			priorityLabel(n.Priority),
			statusLabel(n.Status),
			n.Title,
			patient,
			n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nВсего: %d, непрочитанных: %d\n", len(items), unread)
	return nil
}

func priorityLabel(p notification.Priority) string {
	switch p {
	case notification.PriorityUrgent:
		return color.New(color.FgRed, color.Bold).Sprint(p)
	case notification.PriorityHigh:
		return color.RedString(string(p))
	case notification.PriorityMedium:
		return color.YellowString(string(p))
	default:
		return string(p)
	}
}

func statusLabel(s notification.Status) string {
	if s == notification.StatusUnread {
		return color.CyanString("● " + string(s))
	}
	return string(s)
}

func init() {
	ListCmd.Flags().StringVar(&listStatus, "status", "", "фильтр по статусу (unread, read, archived)")
	ListCmd.Flags().StringVar(&listPriority, "priority", "", "фильтр по приоритету (urgent, high, medium, low)")
	ListCmd.Flags().StringVar(&listType, "type", "", "фильтр по типу")
	ListCmd.Flags().IntVar(&listLimit, "limit", 0, "количество на странице")
	ListCmd.Flags().IntVar(&listPage, "page", 0, "номер страницы")
}
