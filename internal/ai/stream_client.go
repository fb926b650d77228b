package ai

import (
	"InterviewAssistant/internal/config"
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// StreamingClient отправляет текст в OpenAI и отдаёт ответ по частям
// через Responses API.
type StreamingClient struct {
	client       *openai.Client
	model        string
	instructions string
	maxTokens    int64
	temperature  float64
}

// Ensure interface compliance
var _ StreamClient = (*StreamingClient)(nil)

func NewStreamingClient(client *openai.Client, cfg *config.Config) *StreamingClient {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &StreamingClient{
		client:       client,
		model:        model,
		instructions: PromptFor(cfg.PromptProfile),
		maxTokens:    int64(max(1, cfg.MaxOutputTokens)),
		temperature:  cfg.Temperature,
	}
}

func (c *StreamingClient) StreamRequest(ctx context.Context, text string, onDelta func(delta string)) error {
	stream := c.client.Responses.NewStreaming(ctx, responses.ResponseNewParams{
		Model:           c.model,
		Instructions:    openai.String(c.instructions),
		MaxOutputTokens: openai.Int(c.maxTokens),
		Temperature:     openai.Float(c.temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	defer stream.Close()

	for stream.Next() {
		ev := stream.Current()
		// Интересуют только текстовые дельты; служебные события пропускаем
		if ev.Type == "response.output_text.delta" && ev.Delta != "" {
			onDelta(ev.Delta)
		}
	}
	return stream.Err()
}
