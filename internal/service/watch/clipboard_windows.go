//go:build windows

package watch

import (
	"context"
	"syscall"

	"github.com/lxn/win"
)

// Clipboard читает текст системного буфера обмена (CF_UNICODETEXT).
type Clipboard struct{}

// Ensure interface compliance
var _ Source = (*Clipboard)(nil)

func NewClipboard() (*Clipboard, error) { return &Clipboard{}, nil }

func (c *Clipboard) Name() string { return "clipboard" }

func (c *Clipboard) Read(_ context.Context) (string, error) {
	txt, ok := readClipboardText()
	if !ok {
		// Буфер занят другим процессом или формат не текстовый — не ошибка цикла
		return "", nil
	}
	return txt, nil
}

func readClipboardText() (string, bool) {
	if win.IsClipboardFormatAvailable(win.CF_UNICODETEXT) == false {
		return "", false
	}
	if win.OpenClipboard(0) == false {
		return "", false
	}
	defer win.CloseClipboard()
	h := win.HGLOBAL(win.GetClipboardData(win.CF_UNICODETEXT))
	if h == 0 {
		return "", false
	}
	p := win.GlobalLock(h)
	if p == nil {
		return "", false
	}
	defer win.GlobalUnlock(h)
	// Считать нуль-терминированную UTF-16 строку
	u16 := (*[1 << 20]uint16)(p) // ограничение 1М элементов
	var n int
	for n = 0; n < len(u16) && u16[n] != 0; n++ {
	}
	if n == 0 {
		return "", true
	}
	return syscall.UTF16ToString(u16[:n]), true
}
