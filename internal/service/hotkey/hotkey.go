// Package hotkey публикует события глобальных горячих клавиш:
// Alt+S принудительно отправляет текущий текст, Alt+A переключает авторежим.
package hotkey

import (
	"context"
	"time"
)

// Action действие, привязанное к горячей клавише.
type Action int

const (
	ActionForceSolve Action = iota + 1
	ActionToggleAutoSolve
)

func (a Action) String() string {
	switch a {
	case ActionForceSolve:
		return "force-solve"
	case ActionToggleAutoSolve:
		return "toggle-auto-solve"
	default:
		return "unknown"
	}
}

// Event нажатие зарегистрированной горячей клавиши.
type Event struct {
	Action Action
	At     time.Time
}

// Listener источник событий горячих клавиш.
type Listener interface {
	Run(ctx context.Context) error
	Events() <-chan Event
}

// New создает слушателя для текущей платформы. На платформах без
// глобальных хоткеев возвращается ошибка; приложение работает без них.
func New() (Listener, error) {
	return newPlatformListener()
}
