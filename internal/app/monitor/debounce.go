package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// debouncer — трейлинг-дебаунс: действие выполняется один раз спустя delay
// после последнего Schedule, серия быстрых изменений схлопывается в одно
// срабатывание с последним аргументом. У библиотеки нет отмены, поэтому
// Cancel инвалидирует отложенное срабатывание счётчиком поколений.
type debouncer struct {
	fire      func(ctx context.Context, text string)
	debounced func(func())

	mu  sync.Mutex
	gen uint64
}

func newDebouncer(delay time.Duration, fire func(ctx context.Context, text string)) *debouncer {
	if delay <= 0 {
		delay = 750 * time.Millisecond
	}
	return &debouncer{fire: fire, debounced: debounce.New(delay)}
}

// Schedule перевзводит таймер с новым аргументом; всегда побеждает последний вызов.
func (d *debouncer) Schedule(ctx context.Context, text string) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	d.debounced(func() {
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}
		d.fire(ctx, text)
	})
}

// Cancel инвалидирует отложенное срабатывание, если оно есть.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	d.gen++
	d.mu.Unlock()
}
