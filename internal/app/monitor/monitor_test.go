package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"InterviewAssistant/internal/config"
	"InterviewAssistant/internal/service/events"

	"go.uber.org/zap"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.DebounceDelay = 20 * time.Millisecond
	cfg.MaxConsecutiveErrors = 3
	return cfg
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	t.Parallel()

	rec := &fireRecorder{}
	d := newDebouncer(60*time.Millisecond, rec.fire)

	ctx := context.Background()
	d.Schedule(ctx, "a")
	time.Sleep(10 * time.Millisecond)
	d.Schedule(ctx, "b")
	time.Sleep(10 * time.Millisecond)
	d.Schedule(ctx, "c")

	time.Sleep(300 * time.Millisecond)
	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected exactly one fire, got %v", got)
	}
	if got[0] != "c" {
		t.Fatalf("expected last argument to win, got %q", got[0])
	}
}

func TestDebouncerCancelSuppressesPendingFire(t *testing.T) {
	t.Parallel()

	rec := &fireRecorder{}
	d := newDebouncer(40*time.Millisecond, rec.fire)

	d.Schedule(context.Background(), "a")
	d.Cancel()

	time.Sleep(200 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("expected no fires after cancel, got %v", got)
	}
}

func TestMonitorSubmitsSettledChange(t *testing.T) {
	t.Parallel()

	src := &fakeSource{value: "two sum problem"}
	sub := &fakeSubmitter{}
	sink := &fakeSink{}
	m := New(testConfig(), src, sub, sink, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()
	<-done

	if got := sub.snapshot(); len(got) != 1 || got[0] != "two sum problem" {
		t.Fatalf("expected single submit of settled text, got %v", got)
	}
	if !sink.has(events.KindContentObserved, "two sum problem") {
		t.Fatalf("expected content_observed event, got %v", sink.snapshot())
	}
	if !sink.has(events.KindMonitorStopped, "") {
		t.Fatalf("expected monitor_stopped event")
	}
}

func TestMonitorFiltersNoise(t *testing.T) {
	t.Parallel()

	src := &fakeSource{value: "x"} // один символ — шум
	sub := &fakeSubmitter{}
	sink := &fakeSink{}
	m := New(testConfig(), src, sub, sink, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	src.set("  ") // пробелы — тоже шум
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if got := sub.snapshot(); len(got) != 0 {
		t.Fatalf("expected no submits for noise, got %v", got)
	}
	if sink.has(events.KindContentObserved, "x") {
		t.Fatalf("one-rune value must not be observed")
	}
}

func TestMonitorUnchangedValueDoesNotRetrigger(t *testing.T) {
	t.Parallel()

	src := &fakeSource{value: "same question"}
	sub := &fakeSubmitter{}
	sink := &fakeSink{}
	m := New(testConfig(), src, sub, sink, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// Значение не меняется много циклов подряд — сабмит ровно один
	time.Sleep(300 * time.Millisecond)
	cancel()
	<-done

	if got := sub.snapshot(); len(got) != 1 {
		t.Fatalf("expected single submit for unchanged value, got %v", got)
	}
}

func TestMonitorAutoSolveGate(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AutoSolve = false
	src := &fakeSource{value: "observed but not solved"}
	sub := &fakeSubmitter{}
	sink := &fakeSink{}
	m := New(cfg, src, sub, sink, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	if !sink.has(events.KindContentObserved, "observed but not solved") {
		t.Fatalf("changes must be observed even with auto-solve off")
	}
	if got := sub.snapshot(); len(got) != 0 {
		t.Fatalf("expected no submits with auto-solve off, got %v", got)
	}

	// Включаем авторешение и подкладываем новое значение
	if on := m.ToggleAutoSolve(); !on {
		t.Fatalf("toggle must enable auto-solve")
	}
	src.set("now solve this")
	time.Sleep(300 * time.Millisecond)
	cancel()
	<-done

	if got := sub.snapshot(); len(got) != 1 || got[0] != "now solve this" {
		t.Fatalf("expected submit after enabling auto-solve, got %v", got)
	}
	if !sink.has(events.KindAutoSolveChanged, "active") {
		t.Fatalf("expected auto_solve_changed event")
	}
}

func TestMonitorRunIdempotent(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	m := New(testConfig(), src, &fakeSubmitter{}, &fakeSink{}, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	// Повторный запуск при работающем цикле — no-op
	if err := m.Run(ctx); err != nil {
		t.Fatalf("second Run must be a no-op, got %v", err)
	}
	cancel()
	<-done
}

func TestMonitorStopsAfterConsecutiveErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("source broken")
	src := &fakeSource{err: wantErr}
	m := New(testConfig(), src, &fakeSubmitter{}, &fakeSink{}, zap.NewNop().Sugar())

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected source error, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("monitor did not stop on persistent source errors")
	}
}

func TestForceBypassesDebounceAndGate(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AutoSolve = false
	src := &fakeSource{value: "solve now"}
	sub := &fakeSubmitter{}
	m := New(cfg, src, sub, &fakeSink{}, zap.NewNop().Sugar())

	if err := m.Force(context.Background()); err != nil {
		t.Fatalf("force failed: %v", err)
	}
	if got := sub.snapshot(); len(got) != 1 || got[0] != "solve now" {
		t.Fatalf("expected immediate submit, got %v", got)
	}

	// Шумовое значение игнорируется молча
	src.set("x")
	if err := m.Force(context.Background()); err != nil {
		t.Fatalf("force on noise must not fail: %v", err)
	}
	if got := sub.snapshot(); len(got) != 1 {
		t.Fatalf("noise must not be submitted, got %v", got)
	}
}

// --- fakes ---

type fakeSource struct {
	mu    sync.Mutex
	value string
	err   error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Read(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

func (f *fakeSource) set(v string) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}

type fakeSubmitter struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSubmitter) Submit(_ context.Context, text string) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
}

func (f *fakeSubmitter) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.texts))
	copy(out, f.texts)
	return out
}

type fakeSink struct {
	mu  sync.Mutex
	evs []events.Event
}

func (f *fakeSink) Publish(ev events.Event) {
	f.mu.Lock()
	f.evs = append(f.evs, ev)
	f.mu.Unlock()
}

func (f *fakeSink) snapshot() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.Event, len(f.evs))
	copy(out, f.evs)
	return out
}

// has проверяет наличие события; пустой text — совпадение по одному виду.
func (f *fakeSink) has(kind events.Kind, text string) bool {
	for _, ev := range f.snapshot() {
		if ev.Kind == kind && (text == "" || ev.Text == text) {
			return true
		}
	}
	return false
}

type fireRecorder struct {
	mu   sync.Mutex
	args []string
}

func (r *fireRecorder) fire(_ context.Context, text string) {
	r.mu.Lock()
	r.args = append(r.args, text)
	r.mu.Unlock()
}

func (r *fireRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.args))
	copy(out, r.args)
	return out
}
