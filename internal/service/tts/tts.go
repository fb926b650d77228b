// Package tts озвучивает готовые ответы выбранным провайдером синтеза речи.
package tts

import (
	"context"
	"fmt"
	"strings"

	"InterviewAssistant/internal/config"
	"InterviewAssistant/internal/service/tts/gemini"
	"InterviewAssistant/internal/service/tts/google"
	"InterviewAssistant/internal/service/tts/player"

	"go.uber.org/zap"
)

// Synthesizer абстракция TTS. Метод синтезирует речь, воспроизводит её и
// не возвращает контент.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// NewSynthesizer выбирает провайдера по cfg.TTSService (google|gemini).
func NewSynthesizer(cfg *config.Config, logger *zap.SugaredLogger) (Synthesizer, error) {
	p := player.New()
	switch strings.ToLower(strings.TrimSpace(cfg.TTSService)) {
	case "google", "":
		return google.New(cfg.GoogleTTS, p, logger), nil
	case "gemini":
		return gemini.New(cfg.GeminiTTS, p, logger), nil
	default:
		return nil, fmt.Errorf("unknown tts service %q; want google or gemini", cfg.TTSService)
	}
}
