//go:build !windows

package watch

import (
	"context"
	"errors"
)

// Clipboard доступен только под Windows; на остальных платформах конструктор
// возвращает ошибку, и приложение предлагает источники screen или relay.
type Clipboard struct{}

func NewClipboard() (*Clipboard, error) {
	return nil, errors.New("clipboard source is supported on windows only; use -source screen or -source relay")
}

func (c *Clipboard) Name() string { return "clipboard" }

func (c *Clipboard) Read(_ context.Context) (string, error) {
	return "", errors.New("clipboard source is supported on windows only")
}
