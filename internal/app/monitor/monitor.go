package monitor

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"InterviewAssistant/internal/config"
	"InterviewAssistant/internal/service/events"
	"InterviewAssistant/internal/service/watch"

	"go.uber.org/zap"
)

// Submitter принимает устоявшийся текст на выполнение запроса.
type Submitter interface {
	Submit(ctx context.Context, text string)
}

// Monitor опрашивает источник текста с фиксированным периодом, публикует
// замеченные изменения и — при включённом авторешении — передаёт их через
// дебаунс исполнителю запросов.
type Monitor struct {
	cfg    *config.Config
	src    watch.Source
	solver Submitter
	sink   events.Sink
	logger *zap.SugaredLogger

	running   atomic.Bool
	autoSolve atomic.Bool
	deb       *debouncer

	// lastSeen трогает только цикл опроса
	lastSeen          string
	consecutiveErrors int
}

func New(cfg *config.Config, src watch.Source, solver Submitter, sink events.Sink, logger *zap.SugaredLogger) *Monitor {
	m := &Monitor{cfg: cfg, src: src, solver: solver, sink: sink, logger: logger}
	m.autoSolve.Store(cfg.AutoSolve)
	m.deb = newDebouncer(cfg.DebounceDelay, func(ctx context.Context, text string) {
		m.solver.Submit(ctx, text)
	})
	return m
}

// Run запускает цикл опроса до отмены контекста или достижения лимита ошибок
// чтения источника. Повторный Run при уже работающем цикле — no-op.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return nil
	}
	defer m.running.Store(false)

	interval := m.cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	m.logger.Infow("Monitor started",
		"source", m.src.Name(),
		"interval", interval.String(),
		"debounce", m.cfg.DebounceDelay.String(),
		"autoSolve", m.autoSolve.Load(),
	)

	t := time.NewTicker(interval)
	defer t.Stop()

	// Первый опрос сразу, не дожидаясь тика
	if err := m.pollOnce(ctx); err != nil {
		m.deb.Cancel()
		m.publish(events.KindMonitorStopped, err.Error())
		return err
	}

	for {
		select {
		case <-ctx.Done():
			m.deb.Cancel()
			m.publish(events.KindMonitorStopped, "context canceled")
			m.logger.Infow("Monitor stopped", "reason", context.Cause(ctx))
			return context.Cause(ctx)
		case <-t.C:
			if err := m.pollOnce(ctx); err != nil {
				m.deb.Cancel()
				m.publish(events.KindMonitorStopped, err.Error())
				return err
			}
		}
	}
}

func (m *Monitor) pollOnce(ctx context.Context) error {
	text, err := m.src.Read(ctx)
	if err != nil {
		m.consecutiveErrors++
		m.logger.Errorw("Source read failed", "source", m.src.Name(), "error", err, "consecutiveErrors", m.consecutiveErrors)
		if m.consecutiveErrors >= max(1, m.cfg.MaxConsecutiveErrors) {
			m.logger.Errorw("Stopping due to consecutive errors threshold", "threshold", m.cfg.MaxConsecutiveErrors)
			return err
		}
		return nil
	}
	m.consecutiveErrors = 0

	if text == m.lastSeen || !validInput(text) {
		return nil
	}
	m.lastSeen = text

	// Изменение публикуется всегда, независимо от режима авторешения
	m.publish(events.KindContentObserved, text)

	if m.autoSolve.Load() {
		m.deb.Schedule(ctx, text)
	}
	return nil
}

// Force читает источник вне цикла опроса и сразу отдаёт текст исполнителю,
// минуя дебаунс и сравнение с последним значением.
func (m *Monitor) Force(ctx context.Context) error {
	text, err := m.src.Read(ctx)
	if err != nil {
		m.logger.Errorw("Force solve: source read failed", "error", err)
		return err
	}
	if !validInput(text) {
		// Пустой или односимвольный текст молча игнорируем — это фильтр, не ошибка
		return nil
	}
	m.publish(events.KindContentObserved, text)
	m.solver.Submit(ctx, text)
	return nil
}

// SetAutoSolve включает/выключает авторешение; цикл опроса продолжает работать.
func (m *Monitor) SetAutoSolve(on bool) {
	m.autoSolve.Store(on)
	if on {
		m.publish(events.KindAutoSolveChanged, "active")
	} else {
		m.publish(events.KindAutoSolveChanged, "paused")
	}
}

// ToggleAutoSolve переключает режим и возвращает новое состояние.
func (m *Monitor) ToggleAutoSolve() bool {
	on := !m.autoSolve.Load()
	m.SetAutoSolve(on)
	return on
}

func (m *Monitor) AutoSolve() bool { return m.autoSolve.Load() }

func (m *Monitor) publish(kind events.Kind, text string) {
	if m.sink == nil {
		return
	}
	m.sink.Publish(events.Event{Kind: kind, Text: text, At: time.Now()})
}

// validInput отсекает шум: пустые и односимвольные значения (случайные
// выделения) не считаются изменением.
func validInput(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= 2
}
