package ai

import "context"

// StubClient заглушка, которая не делает реальных запросов. Используется,
// когда API-ключ не задан, чтобы приложение оставалось живым.
type StubClient struct{}

// Ensure interface compliance
var (
	_ Client       = (*StubClient)(nil)
	_ StreamClient = (*StubClient)(nil)
)

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) SendRequest(_ context.Context, _, _ string) (string, error) {
	return "Stub response: request received.", nil
}

func (c *StubClient) StreamRequest(_ context.Context, _ string, onDelta func(delta string)) error {
	// Имитируем потоковую выдачу двумя фрагментами
	onDelta("Stub response: ")
	onDelta("request received.")
	return nil
}
