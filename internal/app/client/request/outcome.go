package request

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Source - происхождение данных ответа
type Source string

const (
	SourceAPI  Source = "api"
	SourceMock Source = "mock"
)

// Outcome - результат запроса. Source заполнен всегда.
type Outcome struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Source     Source          `json:"source"`
	Message    string          `json:"message,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
}

// Decode разбирает данные ответа в v
func (o *Outcome) Decode(v any) error {
	if len(o.Data) == 0 {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal(o.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// IsMock сообщает, что данные синтетические
func (o *Outcome) IsMock() bool {
	return o.Source == SourceMock
}

var (
	// ErrUnavailable - сервер не дал ответа: нет сети, ошибка транспорта или таймаут
	ErrUnavailable = errors.New("backend unavailable")
	// ErrOffline - устройство не подключено к сети
	ErrOffline = fmt.Errorf("%w: device offline", ErrUnavailable)
	// ErrMalformedResponse - тело ответа не является корректным JSON
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError - сервер ответил кодом вне 2xx
type StatusError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsClientError - ответ 4xx, повтор бесполезен
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsUnauthorized - сервер отверг токен
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsStatusError извлекает StatusError из цепочки ошибок
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
