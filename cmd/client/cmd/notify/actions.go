package notify

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medsync/cmd/client/cmd/types"
	"medsync/internal/app/client/notification"
)

type mutation func(ctx context.Context, s *notification.Synchronizer, id string) error

func markRead(ctx context.Context, s *notification.Synchronizer, id string) error {
	return s.MarkAsRead(ctx, id)
}

func markUnread(ctx context.Context, s *notification.Synchronizer, id string) error {
	return s.MarkAsUnread(ctx, id)
}

func archive(ctx context.Context, s *notification.Synchronizer, id string) error {
	return s.Archive(ctx, id)
}

func unarchive(ctx context.Context, s *notification.Synchronizer, id string) error {
	return s.Unarchive(ctx, id)
}

// actionCmd собирает команду изменения статуса для одного или нескольких id
func actionCmd(use, short string, apply mutation) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID [ID...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := types.RequireSession(cmd)
			if err != nil {
				return err
			}

			for _, id := range args {
				if err := apply(cmd.Context(), env.App.Notifications(), id); err != nil {
					return fmt.Errorf("уведомление %s: %w", id, err)
				}
				color.Green("✓ %s", id)
			}
			return nil
		},
	}
}

var DeleteCmd = &cobra.Command{
	Use:   "delete ID [ID...]",
	Short: "Удалить уведомления",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := types.RequireSession(cmd)
		if err != nil {
			return err
		}

		sync := env.App.Notifications()
		if len(args) == 1 {
			err = sync.Delete(cmd.Context(), args[0])
		} else {
			err = sync.BulkDelete(cmd.Context(), args)
		}
		if err != nil {
			return fmt.Errorf("ошибка удаления: %w", err)
		}

		color.Green("✓ Удалено: %d", len(args))
		return nil
	},
}

var ReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Отметить все уведомления прочитанными",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.RequireSession(cmd)
		if err != nil {
			return err
		}

		if err := env.App.Notifications().MarkAllAsRead(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка обновления: %w", err)
		}

		color.Green("✓ Все уведомления прочитаны")
		return nil
	},
}
