package watch

import (
	"context"
	"sync"
)

// Source — то, что можно опросить на предмет входного текста. Read возвращает
// текущий снимок источника; сравнение с предыдущим значением и фильтрация
// шума — обязанность монитора, не источника.
type Source interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

// Relay — источник с внешним заполнением: кто-то (чат, тест) кладёт текст
// через Set, монитор забирает его обычным опросом.
type Relay struct {
	mu   sync.Mutex
	text string
}

// Ensure interface compliance
var _ Source = (*Relay)(nil)

func NewRelay() *Relay { return &Relay{} }

func (r *Relay) Name() string { return "relay" }

func (r *Relay) Set(text string) {
	r.mu.Lock()
	r.text = text
	r.mu.Unlock()
}

func (r *Relay) Read(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text, nil
}
