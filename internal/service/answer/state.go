package answer

import (
	"context"
	"sync"
)

// NoAnswer — начальное значение текущего ответа, пока ни одного запроса не было.
// В историю никогда не попадает.
const NoAnswer = "No response yet."

// State — потокобезопасное состояние «текущий ответ + история завершённых».
// Пишет его только исполнитель запросов; читают UI-диспетчер и зеркало.
type State struct {
	mu      sync.Mutex
	current string
	history []string
	cap     int
	updated chan struct{} // закрывается при каждом Update, затем заменяется новым
}

func New(maxHistory int) *State {
	if maxHistory <= 0 {
		maxHistory = 50
	}
	return &State{
		current: NoAnswer,
		history: make([]string, 0, maxHistory),
		cap:     maxHistory,
		updated: make(chan struct{}),
	}
}

// Current возвращает самый свежий (возможно, промежуточный) текст ответа.
func (s *State) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update заменяет текущий ответ и будит всех, кто ждёт в WaitUpdate.
func (s *State) Update(text string) {
	s.mu.Lock()
	s.current = text
	ch := s.updated
	s.updated = make(chan struct{})
	s.mu.Unlock()
	close(ch)
}

// Finalize фиксирует текущий ответ в истории. Повторный вызов без нового
// Update — no-op, как и вызов на начальном состоянии или при совпадении
// с последней записью. При переполнении удаляется самая старая запись.
func (s *State) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == NoAnswer {
		return
	}
	if n := len(s.history); n > 0 && s.history[n-1] == s.current {
		return
	}
	if len(s.history) == s.cap {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.cap-1]
	}
	s.history = append(s.history, s.current)
}

// History возвращает копию истории, от старых к новым.
func (s *State) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Updated возвращает канал текущего поколения: он закроется на ближайшем
// Update. Подписчик берёт канал ДО чтения Current — обновление, пришедшее
// между чтением и ожиданием, не теряется.
func (s *State) Updated() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// WaitUpdate блокируется до следующего Update после момента вызова либо до
// отмены контекста. Возвращает true, если разбужен обновлением. Быстрые
// последовательные Update могут схлопнуться в одно пробуждение — подписчик
// увидит самое свежее значение через Current.
func (s *State) WaitUpdate(ctx context.Context) bool {
	select {
	case <-s.Updated():
		return true
	case <-ctx.Done():
		return false
	}
}
