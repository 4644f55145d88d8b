// Package status отслеживает доступность сети и сервера.
package status

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// BackendStatus - представление клиента о доступности сервера
type BackendStatus string

const (
	BackendChecking BackendStatus = "checking"
	BackendOnline   BackendStatus = "online"
	BackendOffline  BackendStatus = "offline"
)

const (
	defaultInterval = 30 * time.Second
	defaultTimeout  = 3 * time.Second
)

// NetworkStatus - снимок состояния сети
type NetworkStatus struct {
	IsOnline      bool          `json:"is_online"`
	BackendStatus BackendStatus `json:"backend_status"`
	LastChecked   *time.Time    `json:"last_checked"`
}

// Config настройки монитора
type Config struct {
	HealthURL string
	Interval  time.Duration
	Timeout   time.Duration
}

// Monitor периодически проверяет сервер и хранит последнее известное состояние.
// Состояние меняется только самим монитором.
type Monitor struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	status NetworkStatus
	subs   map[int]chan NetworkStatus
	nextID int
	// растет при каждой потере сети; проверка, начатая до нее, отбрасывается
	generation uint64

	probeMu sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New создает монитор. Начальное состояние: сеть есть, сервер проверяется.
func New(cfg Config, log *slog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Monitor{
		cfg:    cfg,
		client: &http.Client{},
		log:    log.With(slog.String("component", "status_monitor")),
		now:    time.Now,
		status: NetworkStatus{
			IsOnline:      true,
			BackendStatus: BackendChecking,
		},
		subs: make(map[int]chan NetworkStatus),
	}
}

// Status возвращает копию текущего состояния
func (m *Monitor) Status() NetworkStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

// IsOnline сообщает, есть ли у устройства сеть
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.IsOnline
}

// CheckBackendStatus выполняет проверку сервера с жестким таймаутом.
// Любая ошибка означает offline, ошибка наружу не возвращается.
func (m *Monitor) CheckBackendStatus(ctx context.Context) NetworkStatus {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	m.mu.RLock()
	gen := m.generation
	m.mu.RUnlock()

	backend := BackendOffline
	if err := m.probe(ctx); err != nil {
		m.log.Debug("Сервер недоступен", "error", err)
	} else {
		backend = BackendOnline
	}

	checked := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		m.log.Debug("Сеть пропала во время проверки, результат отброшен")
		return m.status.clone()
	}
	return m.apply(func(s *NetworkStatus) {
		// без сети сервер недоступен, что бы ни ответила проверка
		if !s.IsOnline {
			backend = BackendOffline
		}
		s.BackendStatus = backend
		s.LastChecked = &checked
	})
}

func (m *Monitor) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// HandleConnectivity обрабатывает переход сети онлайн/офлайн.
// При потере сети сервер сразу считается недоступным без проверки,
// при восстановлении сразу выполняется проверка.
func (m *Monitor) HandleConnectivity(ctx context.Context, online bool) {
	if !online {
		m.log.Info("Сеть недоступна")
		m.mu.Lock()
		m.generation++
		m.apply(func(s *NetworkStatus) {
			s.IsOnline = false
			s.BackendStatus = BackendOffline
		})
		m.mu.Unlock()
		return
	}

	m.log.Info("Сеть восстановлена")
	m.update(func(s *NetworkStatus) {
		s.IsOnline = true
	})
	m.CheckBackendStatus(ctx)
}

// Watch применяет события подключения из канала до его закрытия или отмены ctx
func (m *Monitor) Watch(ctx context.Context, events <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-events:
			if !ok {
				return
			}
			m.HandleConnectivity(ctx, online)
		}
	}
}

// Start запускает фоновую проверку: сразу и затем каждые Interval
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.loop(ctx)
	}()
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.CheckBackendStatus(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.CheckBackendStatus(ctx)
		}
	}
}

// Stop останавливает фоновую проверку
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
}

// Subscribe возвращает канал с обновлениями состояния и функцию отписки.
// Медленный подписчик пропускает промежуточные состояния.
func (m *Monitor) Subscribe() (<-chan NetworkStatus, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan NetworkStatus, 1)
	ch <- m.status.clone()
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
}

func (m *Monitor) update(fn func(s *NetworkStatus)) NetworkStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apply(fn)
}

// apply меняет состояние и рассылает снимок подписчикам. Вызывается под m.mu.
func (m *Monitor) apply(fn func(s *NetworkStatus)) NetworkStatus {
	prev := m.status.BackendStatus
	fn(&m.status)
	snapshot := m.status.clone()

	if prev != snapshot.BackendStatus {
		m.log.Info("Состояние сервера изменилось",
			"from", string(prev),
			"to", string(snapshot.BackendStatus),
		)
	}

	for _, ch := range m.subs {
		// оставляем в буфере только последнее состояние
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot.clone():
		default:
		}
	}

	return snapshot
}

func (s NetworkStatus) clone() NetworkStatus {
	if s.LastChecked != nil {
		t := *s.LastChecked
		s.LastChecked = &t
	}
	return s
}
