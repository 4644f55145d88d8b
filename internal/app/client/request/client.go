// Package request выполняет запросы к серверу с таймаутами, повторами
// и подстановкой синтетических данных, когда сервер недоступен.
package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultMaxAttempts = 2
	defaultRetryDelay  = time.Second
	defaultLatencyMin  = 100 * time.Millisecond
	defaultLatencyMax  = 400 * time.Millisecond
	userAgent          = "MedSync-Client/1.0"
)

// OnlineChecker сообщает, подключено ли устройство к сети
type OnlineChecker interface {
	IsOnline() bool
}

// TokenSource отдает текущий токен доступа или пустую строку
type TokenSource interface {
	Token() string
}

type alwaysOnline struct{}

func (alwaysOnline) IsOnline() bool { return true }

// Config настройки клиента
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	MaxAttempts       int
	RetryDelay        time.Duration
	MockLatencyMin    time.Duration
	MockLatencyMax    time.Duration
	RequestsPerSecond float64
}

// Client - HTTP клиент с повторами и синтетическими данными.
// Безопасен для конкурентного использования.
type Client struct {
	cfg     Config
	client  *http.Client
	log     *slog.Logger
	online  OnlineChecker
	limiter *rate.Limiter

	mu     sync.RWMutex
	tokens TokenSource

	sleep func(ctx context.Context, d time.Duration) error
	rnd   func(n int64) int64
}

func New(cfg Config, online OnlineChecker, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MockLatencyMin <= 0 && cfg.MockLatencyMax <= 0 {
		cfg.MockLatencyMin = defaultLatencyMin
		cfg.MockLatencyMax = defaultLatencyMax
	}
	if cfg.MockLatencyMax < cfg.MockLatencyMin {
		cfg.MockLatencyMax = cfg.MockLatencyMin
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if online == nil {
		online = alwaysOnline{}
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:     log.With(slog.String("component", "request_client")),
		online:  online,
		limiter: rate.NewLimiter(limit, burst),
		sleep:   sleepContext,
		rnd:     rand.Int63n,
	}
}

// SetTokenSource задает источник токена для заголовка Authorization
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) Get(ctx context.Context, endpoint string) *Outcome {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) *Outcome {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) *Outcome {
	return c.Do(ctx, http.MethodPut, endpoint, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string, body any) *Outcome {
	return c.Do(ctx, http.MethodDelete, endpoint, body)
}

// Do выполняет запрос и никогда не возвращает ошибку: если ответ получить
// не удалось, возвращаются синтетические данные с Source=mock.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) *Outcome {
	if !c.online.IsOnline() {
		c.log.Debug("Нет сети, используем синтетические данные", "endpoint", endpoint)
		return c.mockOutcome(ctx, endpoint, ErrOffline.Error(), 0)
	}

	// Do повторяет и ответы 4xx: любой неуспех проходит все попытки и только
	// затем заменяется синтетическими данными. Call их не повторяет.
	outcome, err := c.execute(ctx, method, endpoint, body, true)
	if err == nil {
		return outcome
	}

	statusCode := 0
	if se, ok := AsStatusError(err); ok {
		statusCode = se.StatusCode
	}

	c.log.Warn("Запрос не выполнен, используем синтетические данные",
		"method", method,
		"endpoint", endpoint,
		"error", err,
	)

	return c.mockOutcome(ctx, endpoint, err.Error(), statusCode)
}

// Call выполняет запрос без подстановки синтетических данных.
// Ответы 4xx не повторяются.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any) (*Outcome, error) {
	if !c.online.IsOnline() {
		return nil, ErrOffline
	}
	return c.execute(ctx, method, endpoint, body, false)
}

func (c *Client) execute(ctx context.Context, method, endpoint string, body any, retryClientErrors bool) (*Outcome, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.cfg.RetryDelay * time.Duration(attempt-1)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		outcome, err := c.attempt(ctx, method, endpoint, payload)
		if err == nil {
			return outcome, nil
		}
		lastErr = err

		c.log.Debug("Попытка запроса не удалась",
			"method", method,
			"endpoint", endpoint,
			"attempt", attempt,
			"error", err,
		)

		if ctx.Err() != nil {
			break
		}
		if se, ok := AsStatusError(err); ok && se.IsClientError() && !retryClientErrors {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte) (*Outcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.doRequest(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}

	return c.parseResponse(resp)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка выполнения запроса: %v", ErrUnavailable, err)
	}

	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response) (*Outcome, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %v", ErrUnavailable, err)
	}

	c.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		if json.Valid(body) {
			se.Body = json.RawMessage(body)
		}
		return nil, se
	}

	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return nil, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
	}

	return &Outcome{
		Success:    true,
		Data:       json.RawMessage(body),
		Source:     SourceAPI,
		StatusCode: resp.StatusCode,
	}, nil
}

func (c *Client) mockOutcome(ctx context.Context, endpoint, message string, statusCode int) *Outcome {
	// отмена контекста только сокращает задержку
	_ = c.sleep(ctx, c.mockLatency())

	return &Outcome{
		Success:    true,
		Data:       MockData(endpoint),
		Source:     SourceMock,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (c *Client) mockLatency() time.Duration {
	spread := int64(c.cfg.MockLatencyMax - c.cfg.MockLatencyMin)
	if spread <= 0 {
		return c.cfg.MockLatencyMin
	}
	return c.cfg.MockLatencyMin + time.Duration(c.rnd(spread+1))
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.cfg.BaseURL + endpoint
}

// errorMessage извлекает текст ошибки из типовых форматов ответа сервера
func errorMessage(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	switch {
	case errResp.Message != "":
		return errResp.Message
	case errResp.Detail != "":
		return errResp.Detail
	default:
		return errResp.Error
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsUnavailable сообщает, что ошибка вызвана недоступностью сервера
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
