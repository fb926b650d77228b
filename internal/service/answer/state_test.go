package answer

import (
	"context"
	"testing"
	"time"
)

func TestInitialState(t *testing.T) {
	t.Parallel()

	s := New(10)
	if got := s.Current(); got != NoAnswer {
		t.Fatalf("unexpected initial answer: %q", got)
	}
	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history, got %v", got)
	}
}

func TestUpdateReplacesCurrent(t *testing.T) {
	t.Parallel()

	s := New(10)
	s.Update("first")
	s.Update("second")
	if got := s.Current(); got != "second" {
		t.Fatalf("unexpected current: %q", got)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	t.Parallel()

	s := New(10)
	s.Update("A")
	s.Finalize()
	s.Finalize()
	got := s.History()
	if len(got) != 1 || got[0] != "A" {
		t.Fatalf("expected history [A], got %v", got)
	}
}

func TestFinalizeOnInitialStateIsNoop(t *testing.T) {
	t.Parallel()

	s := New(10)
	s.Finalize()
	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history, got %v", got)
	}
}

func TestFinalizeAppendsDistinctAnswers(t *testing.T) {
	t.Parallel()

	s := New(10)
	s.Update("A")
	s.Finalize()
	s.Update("B")
	s.Finalize()
	got := s.History()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("expected history [A B], got %v", got)
	}
}

func TestHistoryCapDropsOldest(t *testing.T) {
	t.Parallel()

	s := New(2)
	for _, v := range []string{"one", "two", "three"} {
		s.Update(v)
		s.Finalize()
	}
	got := s.History()
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("expected history [two three], got %v", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New(10)
	s.Update("A")
	s.Finalize()
	snap := s.History()
	s.Update("B")
	s.Finalize()
	if len(snap) != 1 || snap[0] != "A" {
		t.Fatalf("snapshot mutated: %v", snap)
	}
}

func TestWaitUpdateWokenByUpdate(t *testing.T) {
	t.Parallel()

	s := New(10)
	done := make(chan bool, 1)
	go func() { done <- s.WaitUpdate(context.Background()) }()

	// Даём подписчику встать в ожидание до Update
	time.Sleep(50 * time.Millisecond)
	s.Update("wake")

	select {
	case woken := <-done:
		if !woken {
			t.Fatalf("expected wake by update, got timeout")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber never woke up")
	}
}

func TestWaitUpdateHonorsContext(t *testing.T) {
	t.Parallel()

	s := New(10)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if s.WaitUpdate(ctx) {
		t.Fatalf("expected context timeout, got update wake")
	}
}

func TestEagerSubscriberObservesFinalValue(t *testing.T) {
	t.Parallel()

	s := New(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	final := make(chan string, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		for {
			ch := s.Updated()
			last := s.Current()
			select {
			case <-ch:
			case <-ctx.Done():
				final <- last
				return
			}
		}
	}()
	<-ready

	for _, v := range []string{"x1", "x2", "x3"} {
		s.Update(v)
	}
	// Подписчик может схлопнуть промежуточные значения, но финальное обязан увидеть
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case got := <-final:
		if got != "x3" {
			t.Fatalf("expected final value x3, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber did not finish")
	}
}
