package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	stdimage "image"
	"strings"
	"sync"

	"InterviewAssistant/internal/ai"
	"InterviewAssistant/internal/service/image"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

// Screen опрашивает прямоугольник экрана. Кадр хэшируется; извлечение текста
// через vision-модель выполняется только когда пиксели изменились, иначе
// возвращается закэшированный текст — так опрос остаётся дешёвым.
type Screen struct {
	region    stdimage.Rectangle
	extractor ai.Client
	proc      *image.Processor
	logger    *zap.SugaredLogger
	capture   func(stdimage.Rectangle) (*stdimage.RGBA, error)

	mu       sync.Mutex
	seen     bool
	lastHash [sha256.Size]byte
	lastText string
}

// Ensure interface compliance
var _ Source = (*Screen)(nil)

// NewScreen создаёт экранный источник. region в формате "x,y,WxH";
// пустая строка — весь основной дисплей.
func NewScreen(region string, extractor ai.Client, logger *zap.SugaredLogger) (*Screen, error) {
	var rect stdimage.Rectangle
	if strings.TrimSpace(region) == "" {
		if screenshot.NumActiveDisplays() <= 0 {
			return nil, fmt.Errorf("screen source: no active displays")
		}
		rect = screenshot.GetDisplayBounds(0)
	} else {
		var err error
		rect, err = parseRegion(region)
		if err != nil {
			return nil, err
		}
	}
	return &Screen{
		region:    rect,
		extractor: extractor,
		proc:      image.NewProcessor(),
		logger:    logger,
		capture:   screenshot.CaptureRect,
	}, nil
}

func (s *Screen) Name() string { return "screen" }

func (s *Screen) Read(ctx context.Context) (string, error) {
	img, err := s.capture(s.region)
	if err != nil {
		return "", fmt.Errorf("capture screen region: %w", err)
	}

	hash := sha256.Sum256(img.Pix)
	s.mu.Lock()
	if s.seen && hash == s.lastHash {
		cached := s.lastText
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	url, err := s.proc.DataURL(img)
	if err != nil {
		return "", fmt.Errorf("encode screen frame: %w", err)
	}

	text, err := s.extractor.SendRequest(ctx, ai.OCRPrompt, url)
	if err != nil {
		// Хэш не запоминаем: следующий опрос попробует извлечь текст снова
		return "", fmt.Errorf("extract screen text: %w", err)
	}
	text = strings.TrimSpace(text)

	s.mu.Lock()
	s.seen = true
	s.lastHash = hash
	s.lastText = text
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debugw("Screen text extracted", "chars", len(text))
	}
	return text, nil
}

// parseRegion разбирает регион вида "x,y,WxH", напр. "100,200,800x600".
func parseRegion(v string) (stdimage.Rectangle, error) {
	var x, y, w, h int
	if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d,%d,%dx%d", &x, &y, &w, &h); err != nil {
		return stdimage.Rectangle{}, fmt.Errorf("invalid screen region %q, expected x,y,WxH: %w", v, err)
	}
	if w <= 0 || h <= 0 {
		return stdimage.Rectangle{}, fmt.Errorf("invalid screen region %q: non-positive size", v)
	}
	return stdimage.Rect(x, y, x+w, y+h), nil
}
