package status

import (
	"context"
	"net"
	"time"

	"golang.org/x/exp/slog"
)

// InterfaceWatcher следит за сетевыми интерфейсами хоста и сообщает о переходах
// онлайн/офлайн. Онлайн - есть хотя бы один поднятый интерфейс, кроме loopback.
type InterfaceWatcher struct {
	interval time.Duration
	log      *slog.Logger
	check    func() bool
}

func NewInterfaceWatcher(interval time.Duration, log *slog.Logger) *InterfaceWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &InterfaceWatcher{
		interval: interval,
		log:      log.With(slog.String("component", "interface_watcher")),
		check:    hasActiveInterface,
	}
}

// Run отправляет в канал событие при каждом изменении состояния.
// Канал закрывается при отмене ctx.
func (w *InterfaceWatcher) Run(ctx context.Context) <-chan bool {
	events := make(chan bool, 1)

	go func() {
		defer close(events)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		last := w.check()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current := w.check()
				if current == last {
					continue
				}
				last = current
				w.log.Debug("Изменилось состояние интерфейсов", "online", current)
				select {
				case events <- current:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}

func hasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}
