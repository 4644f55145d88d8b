// Package jsonid разбирает идентификаторы, которые сервер может прислать строкой или числом.
package jsonid

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Parse возвращает id в виде строки. Отсутствующий id и null дают пустую строку.
func Parse(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if _, err := strconv.ParseFloat(string(raw), 64); err != nil {
		return "", fmt.Errorf("invalid id %s: %w", raw, err)
	}
	return string(raw), nil
}
