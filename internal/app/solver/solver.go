package solver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"InterviewAssistant/internal/ai"
	"InterviewAssistant/internal/config"
	"InterviewAssistant/internal/service/answer"
	"InterviewAssistant/internal/service/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Overlap policies
const (
	overlapSkip    = "skip"
	overlapPreempt = "preempt"
)

// noResponse публикуется вместо пустого ответа, когда стрим завершился без
// единого фрагмента.
const noResponse = "(No response from API)"

// Solver выполняет потоковые запросы к AI. Каждый накопленный префикс ответа
// записывается в состояние и публикуется событием, чтобы подписчики видели
// все промежуточные значения. Наложение запросов разруливается политикой:
// skip — новый триггер при запущенном запросе отбрасывается, preempt —
// текущий запрос отменяется, его хвостовые дельты игнорируются по токену.
type Solver struct {
	ai      ai.StreamClient
	state   *answer.State
	sink    events.Sink
	logger  *zap.SugaredLogger
	policy  string
	timeout time.Duration

	inflight atomic.Bool
	mu       sync.Mutex
	token    uint64 // Счётчик текущего запроса
	cancel   context.CancelFunc
}

func New(cfg *config.Config, client ai.StreamClient, state *answer.State, sink events.Sink, logger *zap.SugaredLogger) *Solver {
	timeout := time.Duration(cfg.QueryTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	policy := cfg.OverlapPolicy
	if policy != overlapSkip {
		policy = overlapPreempt
	}
	return &Solver{
		ai:      client,
		state:   state,
		sink:    sink,
		logger:  logger,
		policy:  policy,
		timeout: timeout,
	}
}

// Submit запускает выполнение запроса на отдельной горутине и сразу
// возвращается, чтобы не блокировать цикл опроса.
func (s *Solver) Submit(ctx context.Context, text string) {
	if s.inflight.Load() {
		switch s.policy {
		case overlapPreempt:
			s.logger.Infow("Preempting in-flight query")
			s.stopPrev()
		default: // skip
			s.logger.Infow("Skipping query due to overlap")
			return
		}
	}

	qctx, cancel := context.WithTimeoutCause(ctx, s.timeout, errors.New("query timeout"))

	s.mu.Lock()
	s.token++
	tok := s.token
	s.cancel = cancel
	s.mu.Unlock()
	s.inflight.Store(true)

	id := uuid.NewString()
	s.publish(events.KindQueryStarted, text)
	s.logger.Infow("Query started", "id", id, "chars", len(text))

	go s.run(qctx, cancel, tok, id, text)
}

// InFlight сообщает, выполняется ли сейчас запрос.
func (s *Solver) InFlight() bool { return s.inflight.Load() }

func (s *Solver) run(ctx context.Context, cancel context.CancelFunc, tok uint64, id string, text string) {
	defer func() {
		cancel()
		s.mu.Lock()
		if s.token == tok {
			s.cancel = nil
			s.inflight.Store(false)
		}
		s.mu.Unlock()
	}()

	start := time.Now()
	var full strings.Builder
	err := s.ai.StreamRequest(ctx, text, func(delta string) {
		full.WriteString(delta)
		s.applyDelta(tok, full.String())
	})

	if !s.latest(tok) {
		// Запрос вытеснен более новым — его результат никому не нужен
		s.logger.Infow("Query preempted", "id", id)
		return
	}

	if err != nil {
		// Текст ошибки публикуется тем же каналом, что и ответ: зеркало на
		// телефоне должно видеть её вместо вечного «загружается»
		msg := formatAPIError(err)
		s.state.Update(msg)
		s.state.Finalize()
		s.publish(events.KindQueryFailed, msg)
		s.logger.Errorw("Query failed", "id", id, "error", err, "cause", context.Cause(ctx))
		return
	}

	final := full.String()
	if strings.TrimSpace(final) == "" {
		final = noResponse
		s.state.Update(final)
	}
	s.state.Finalize()
	s.publish(events.KindAnswerFinal, final)
	s.logger.Infow("Query done", "id", id, "duration", time.Since(start).String(), "chars", len(final))
}

// applyDelta записывает накопленный префикс, только если запрос всё ещё
// актуален — дельты вытесненного стрима молча отбрасываются.
func (s *Solver) applyDelta(tok uint64, accumulated string) {
	if !s.latest(tok) {
		return
	}
	s.state.Update(accumulated)
	s.publish(events.KindAnswerDelta, accumulated)
}

func (s *Solver) latest(tok uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token == tok
}

func (s *Solver) stopPrev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Solver) publish(kind events.Kind, text string) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(events.Event{Kind: kind, Text: text, At: time.Now()})
}
