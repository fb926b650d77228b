package watch

import (
	"context"
	stdimage "image"
	"sync"
	"testing"

	"InterviewAssistant/internal/service/image"
)

func TestRelaySetRead(t *testing.T) {
	t.Parallel()

	r := NewRelay()
	got, err := r.Read(context.Background())
	if err != nil || got != "" {
		t.Fatalf("fresh relay: got %q, err %v", got, err)
	}

	r.Set("two sum problem")
	got, err = r.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != "two sum problem" {
		t.Fatalf("unexpected relay value: %q", got)
	}
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	rect, err := parseRegion("100,200,800x600")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := stdimage.Rect(100, 200, 900, 800)
	if rect != want {
		t.Fatalf("unexpected rect: %v, want %v", rect, want)
	}

	for _, bad := range []string{"", "abc", "1,2", "0,0,0x10", "0,0,10x-5"} {
		if _, err := parseRegion(bad); err == nil {
			t.Fatalf("expected error for region %q", bad)
		}
	}
}

func TestScreenCachesUnchangedFrames(t *testing.T) {
	t.Parallel()

	frame := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	ex := &fakeExtractor{text: "hello from screen"}
	s := &Screen{
		region:    frame.Bounds(),
		extractor: ex,
		proc:      image.NewProcessor(),
		capture:   func(stdimage.Rectangle) (*stdimage.RGBA, error) { return frame, nil },
	}

	for i := 0; i < 3; i++ {
		got, err := s.Read(context.Background())
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if got != "hello from screen" {
			t.Fatalf("read %d: unexpected text %q", i, got)
		}
	}
	if n := ex.calls(); n != 1 {
		t.Fatalf("expected 1 extraction for unchanged frame, got %d", n)
	}

	// Меняем пиксели — извлечение должно выполниться заново
	frame.Pix[0] = 255
	if _, err := s.Read(context.Background()); err != nil {
		t.Fatalf("read after change failed: %v", err)
	}
	if n := ex.calls(); n != 2 {
		t.Fatalf("expected re-extraction after frame change, got %d calls", n)
	}
}

func TestScreenRetriesExtractionAfterError(t *testing.T) {
	t.Parallel()

	frame := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	ex := &fakeExtractor{text: "ok", failFirst: true}
	s := &Screen{
		region:    frame.Bounds(),
		extractor: ex,
		proc:      image.NewProcessor(),
		capture:   func(stdimage.Rectangle) (*stdimage.RGBA, error) { return frame, nil },
	}

	if _, err := s.Read(context.Background()); err == nil {
		t.Fatalf("expected first extraction to fail")
	}
	// Хэш не зафиксирован — повторный опрос того же кадра извлекает снова
	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected text after retry: %q", got)
	}
}

type fakeExtractor struct {
	mu        sync.Mutex
	n         int
	text      string
	failFirst bool
}

func (f *fakeExtractor) SendRequest(_ context.Context, _ string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	if f.failFirst && f.n == 1 {
		return "", context.DeadlineExceeded
	}
	return f.text, nil
}

func (f *fakeExtractor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}
