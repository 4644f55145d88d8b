package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const defaultPollInterval = 30 * time.Second

// ErrSuperseded - ответ устарел: после него был запущен более новый запрос списка
var ErrSuperseded = errors.New("fetch superseded by a newer one")

// Service - серверные операции над уведомлениями
type Service interface {
	List(ctx context.Context, params ListParams) ([]Notification, error)
	Stats(ctx context.Context) (*Stats, error)
	MarkRead(ctx context.Context, id string) error
	MarkUnread(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}

// Synchronizer хранит копию уведомлений и счетчик непрочитанных.
// Счетчик всегда равен числу уведомлений со статусом unread в копии:
// изменения применяются только после подтверждения сервера.
type Synchronizer struct {
	api      Service
	log      *slog.Logger
	interval time.Duration

	mu     sync.RWMutex
	items  []Notification
	unread int
	loaded bool
	alert  bool

	fetchMu     sync.Mutex
	generation  uint64
	cancelFetch context.CancelFunc

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewSynchronizer(api Service, interval time.Duration, log *slog.Logger) *Synchronizer {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Synchronizer{
		api:      api,
		log:      log.With(slog.String("component", "notification_sync")),
		interval: interval,
		items:    []Notification{},
	}
}

// Fetch загружает список и полностью заменяет локальную копию.
// Новый вызов отменяет предыдущий незавершенный; устаревший ответ отбрасывается.
func (s *Synchronizer) Fetch(ctx context.Context, params ListParams) ([]Notification, error) {
	s.fetchMu.Lock()
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	s.generation++
	gen := s.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.fetchMu.Unlock()

	defer func() {
		s.fetchMu.Lock()
		if s.generation == gen {
			s.cancelFetch = nil
		}
		s.fetchMu.Unlock()
		cancel()
	}()

	items, err := s.api.List(fetchCtx, params)

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	if s.generation != gen {
		s.log.Debug("Ответ устарел, отброшен", "generation", gen)
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	s.apply(items)
	return s.Notifications(), nil
}

func (s *Synchronizer) apply(items []Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.items))
	for _, item := range s.items {
		known[item.ID] = struct{}{}
	}

	fresh := false
	next := make([]Notification, len(items))
	for i, item := range items {
		next[i] = item.clone()
		if _, ok := known[item.ID]; !ok && item.Status == StatusUnread {
			fresh = true
		}
	}

	if fresh && s.loaded {
		s.alert = true
	}

	s.items = next
	s.unread = countUnread(next)
	s.loaded = true

	s.log.Debug("Уведомления обновлены", "total", len(next), "unread", s.unread)
}

// FetchStats возвращает сводку сервера и не меняет локальную копию
func (s *Synchronizer) FetchStats(ctx context.Context) (*Stats, error) {
	return s.api.Stats(ctx)
}

func (s *Synchronizer) MarkAsRead(ctx context.Context, id string) error {
	if err := s.api.MarkRead(ctx, id); err != nil {
		return err
	}
	s.setStatus(id, StatusRead)
	return nil
}

func (s *Synchronizer) MarkAsUnread(ctx context.Context, id string) error {
	if err := s.api.MarkUnread(ctx, id); err != nil {
		return err
	}
	s.setStatus(id, StatusUnread)
	return nil
}

func (s *Synchronizer) Archive(ctx context.Context, id string) error {
	if err := s.api.Archive(ctx, id); err != nil {
		return err
	}
	s.setStatus(id, StatusArchived)
	return nil
}

// Unarchive возвращает уведомление из архива как прочитанное
func (s *Synchronizer) Unarchive(ctx context.Context, id string) error {
	if err := s.api.Unarchive(ctx, id); err != nil {
		return err
	}
	s.setStatus(id, StatusRead)
	return nil
}

func (s *Synchronizer) MarkAllAsRead(ctx context.Context) error {
	if err := s.api.MarkAllRead(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Status == StatusUnread {
			s.items[i].Status = StatusRead
		}
	}
	s.unread = 0
	return nil
}

func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.remove(id)
	return nil
}

func (s *Synchronizer) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.api.BulkDelete(ctx, ids); err != nil {
		return err
	}
	s.remove(ids...)
	return nil
}

func (s *Synchronizer) setStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		prev := s.items[i].Status
		s.items[i].Status = status
		s.unread += unreadWeight(status) - unreadWeight(prev)
		return
	}
}

func (s *Synchronizer) remove(ids ...string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if _, ok := drop[item.ID]; ok {
			s.unread -= unreadWeight(item.Status)
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
}

func unreadWeight(status Status) int {
	if status == StatusUnread {
		return 1
	}
	return 0
}

// Notifications возвращает копию локальной коллекции
func (s *Synchronizer) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

func (s *Synchronizer) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// ShowNewNotificationAlert сообщает, что пришло новое непрочитанное уведомление
func (s *Synchronizer) ShowNewNotificationAlert() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alert
}

func (s *Synchronizer) AcknowledgeAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert = false
}

// Start запускает опрос: сразу и затем каждые interval
func (s *Synchronizer) Start(ctx context.Context, params ListParams) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.runMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.poll(ctx, params)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.poll(ctx, params)
			}
		}
	}()
}

// Stop останавливает опрос и отменяет незавершенный запрос
func (s *Synchronizer) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.runMu.Unlock()

	s.fetchMu.Lock()
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	s.fetchMu.Unlock()

	s.wg.Wait()
}

func (s *Synchronizer) poll(ctx context.Context, params ListParams) {
	if _, err := s.Fetch(ctx, params); err != nil && !errors.Is(err, ErrSuperseded) {
		s.log.Debug("Опрос уведомлений не удался", "error", err)
	}
}
