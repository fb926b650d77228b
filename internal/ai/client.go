package ai

import "context"

// Client интерфейс для одиночного запроса к AI (текст + опциональная картинка).
// Все реализации должны быть взаимозаменяемыми.
type Client interface {
	SendRequest(ctx context.Context, text string, imageURL string) (string, error)
}

// StreamClient отдаёт ответ инкрементально: onDelta вызывается для каждого
// фрагмента в порядке прихода из API. Возврат из StreamRequest означает конец
// потока; поток конечен и не перезапускаем.
type StreamClient interface {
	StreamRequest(ctx context.Context, text string, onDelta func(delta string)) error
}
