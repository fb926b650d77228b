package solver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/openai/openai-go/v3"
)

// formatAPIError превращает ошибку запроса в короткую человекочитаемую
// строку. Строка всегда содержит слово "Error" и публикуется вместо ответа —
// единственное место, где ошибка оформляется, чтобы будущий переход на
// отдельный канал ошибок был заменой одной функции.
func formatAPIError(err error) string {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "Error: Invalid OpenAI API Key. Check your .env file."
		case http.StatusTooManyRequests:
			return "Error: Rate limit exceeded. Please wait and try again."
		default:
			return "API Error: " + truncate(apiErr.Error(), 100)
		}
	case errors.Is(err, context.DeadlineExceeded):
		return "Error: Request timed out."
	case isConnError(err):
		return "Error: Could not connect to OpenAI API. " + truncate(err.Error(), 100)
	default:
		return "API Error: " + truncate(err.Error(), 100)
	}
}

func isConnError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
