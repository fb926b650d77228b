package events

import "time"

// Kind описывает типы событий жизненного цикла наблюдения и запросов.
type Kind int

const (
	KindContentObserved Kind = iota + 1
	KindQueryStarted
	KindAnswerDelta
	KindAnswerFinal
	KindQueryFailed
	KindAutoSolveChanged
	KindMonitorStopped
)

func (k Kind) String() string {
	switch k {
	case KindContentObserved:
		return "content_observed"
	case KindQueryStarted:
		return "query_started"
	case KindAnswerDelta:
		return "answer_delta"
	case KindAnswerFinal:
		return "answer_final"
	case KindQueryFailed:
		return "query_failed"
	case KindAutoSolveChanged:
		return "auto_solve_changed"
	case KindMonitorStopped:
		return "monitor_stopped"
	}
	return "unknown"
}

// Event универсальное событие приложения.
type Event struct {
	Kind Kind
	Text string
	At   time.Time
}

// Sink принимает события. Publish не должен блокировать вызывающего.
type Sink interface {
	Publish(ev Event)
}

// Hub — буферизированная шина событий с единственным потребителем (диспетчером).
type Hub struct {
	out chan Event
}

// Ensure interface compliance
var _ Sink = (*Hub)(nil)

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{out: make(chan Event, buffer)}
}

// Publish отправляет событие без блокировки; при переполнении — дроп.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case h.out <- ev:
	default:
		// потребитель не успевает — события статуса можно терять
	}
}

func (h *Hub) Events() <-chan Event { return h.out }
