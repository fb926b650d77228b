package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ttsplayer "InterviewAssistant/internal/service/tts/player"

	"go.uber.org/zap"
)

// SoundNotifier проигрывает короткий звук при завершении ответа.
type SoundNotifier struct {
	logger *zap.SugaredLogger
	path   string
	ply    ttsplayer.Player
}

// NewSoundNotifier создаёт нотификатор. При пустом пути используется
// sound/answer.mp3: сначала рядом с бинарём, затем от рабочей директории.
func NewSoundNotifier(logger *zap.SugaredLogger, path string) *SoundNotifier {
	if strings.TrimSpace(path) == "" {
		path = resolve(filepath.Join("sound", "answer.mp3"))
	}
	return &SoundNotifier{
		logger: logger,
		path:   path,
		ply:    ttsplayer.New(),
	}
}

func resolve(def string) string {
	if exe, err := os.Executable(); err == nil {
		cand := filepath.Join(filepath.Dir(exe), def)
		if _, statErr := os.Stat(cand); statErr == nil {
			return cand
		}
	}
	return filepath.FromSlash(def)
}

// Play проигрывает звук уведомления. Ошибки логируются и возвращаются,
// чтобы вызывающий мог принять решение (например, проигнорировать).
func (n *SoundNotifier) Play(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
	}

	f, err := os.Open(n.path)
	if err != nil {
		if n.logger != nil {
			n.logger.Warnw("Не удалось открыть звуковой файл уведомления", "path", n.path, "error", err)
		}
		return err
	}
	defer f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(n.path), "."))
	if ext == "" {
		ext = "mp3"
	}

	if err := n.ply.Play(ext, f); err != nil {
		if n.logger != nil {
			n.logger.Warnw("Не удалось воспроизвести звуковое уведомление", "path", n.path, "error", err)
		}
		return err
	}
	return nil
}
