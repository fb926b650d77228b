package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"InterviewAssistant/internal/adapter/chat/twitch"
	"InterviewAssistant/internal/ai"
	"InterviewAssistant/internal/app/monitor"
	"InterviewAssistant/internal/app/solver"
	"InterviewAssistant/internal/config"
	"InterviewAssistant/internal/service/answer"
	"InterviewAssistant/internal/service/events"
	"InterviewAssistant/internal/service/hotkey"
	"InterviewAssistant/internal/service/mirror"
	"InterviewAssistant/internal/service/notify"
	"InterviewAssistant/internal/service/tts"
	"InterviewAssistant/internal/service/watch"

	"github.com/mdp/qrterminal/v3"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	zcfg := zap.NewDevelopmentConfig()
	if !cfg.DebugMode {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("Starting assistant",
		"DebugMode", cfg.DebugMode,
		"Model", cfg.Model,
		"Source", cfg.Source,
		"AutoSolve", cfg.AutoSolve,
	)

	if !ai.KnownModel(cfg.Model) {
		sugar.Warnw("Model is not in the verified list, requests may fail", "model", cfg.Model, "known", ai.KnownModels)
	}

	// Без ключа работаем на заглушке: весь конвейер жив, ответы фиктивные
	var streamClient ai.StreamClient
	var visionClient ai.Client
	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) == "" {
		sugar.Warnw("OPENAI_API_KEY is not set, using stub AI client")
		stub := ai.NewStubClient()
		streamClient = stub
		visionClient = stub
	} else {
		oClient := openai.NewClient()
		streamClient = ai.NewStreamingClient(&oClient, cfg)
		visionClient = ai.NewVisionClient(&oClient, cfg.Model)
	}

	var src watch.Source
	var relay *watch.Relay
	switch cfg.Source {
	case "clipboard":
		src, err = watch.NewClipboard()
	case "screen":
		src, err = watch.NewScreen(cfg.ScreenRegion, visionClient, sugar)
	case "relay":
		relay = watch.NewRelay()
		src = relay
	default:
		err = fmt.Errorf("unknown source %q; want clipboard, screen or relay", cfg.Source)
	}
	if err != nil {
		sugar.Errorw("Source init failed", "source", cfg.Source, "error", err)
		return
	}

	state := answer.New(cfg.MaxHistoryRecords)
	hub := events.NewHub(256)
	slv := solver.New(cfg, streamClient, state, hub, sugar)
	mon := monitor.New(cfg, src, slv, hub, sugar)

	var chime *notify.SoundNotifier
	if cfg.ChimeEnabled {
		chime = notify.NewSoundNotifier(sugar, cfg.NotificationSoundPath)
	}

	var speaker tts.Synthesizer
	if cfg.TTSEnabled {
		speaker, err = tts.NewSynthesizer(cfg, sugar)
		if err != nil {
			sugar.Warnw("TTS disabled", "error", err)
		}
	}

	if cfg.Mirror.Enabled {
		mirrorSrv := mirror.NewServer(cfg.Mirror, state, sugar)
		if err := mirrorSrv.Start(ctx); err != nil {
			sugar.Errorw("Mirror start failed", "error", err)
			return
		}
		sugar.Infow("Open this URL on your phone", "url", mirrorSrv.URL())
		if cfg.Mirror.ShowQR {
			qrterminal.GenerateHalfBlock(mirrorSrv.URL(), qrterminal.L, os.Stdout)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return mon.Run(gctx) })

	// Диспетчер событий: статус в лог, финальный ответ в консоль, звук и озвучка
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return context.Cause(gctx)
			case ev := <-hub.Events():
				dispatch(gctx, sugar, ev, chime, speaker)
			}
		}
	})

	if cfg.HotkeysEnabled {
		hk, hkErr := hotkey.New()
		if hkErr != nil {
			sugar.Warnw("Hotkeys unavailable", "error", hkErr)
		} else {
			g.Go(func() error { return hk.Run(gctx) })
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return context.Cause(gctx)
					case ev := <-hk.Events():
						switch ev.Action {
						case hotkey.ActionForceSolve:
							sugar.Infow("Hotkey: force solve")
							_ = mon.Force(gctx)
						case hotkey.ActionToggleAutoSolve:
							sugar.Infow("Hotkey: toggle auto-solve", "on", mon.ToggleAutoSolve())
						}
					}
				}
			})
		}
	}

	if relay != nil && cfg.TwitchChannel != "" {
		tcfg := twitch.Config{
			Username: cfg.TwitchUsername,
			OAuth:    cfg.TwitchOAuthToken,
			Channel:  cfg.TwitchChannel,
		}
		g.Go(func() error { return twitch.Run(gctx, sugar, tcfg, relay) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("Assistant stopped with error", "error", err)
		return
	}
	sugar.Infow("Assistant stopped")
}

// dispatch обрабатывает одно событие шины.
func dispatch(ctx context.Context, sugar *zap.SugaredLogger, ev events.Event, chime *notify.SoundNotifier, speaker tts.Synthesizer) {
	switch ev.Kind {
	case events.KindContentObserved:
		sugar.Infow("Content observed", "chars", len(ev.Text))
	case events.KindQueryStarted:
		sugar.Infow("Querying AI...")
	case events.KindAnswerDelta:
		sugar.Debugw("Answer delta", "chars", len(ev.Text))
	case events.KindAnswerFinal, events.KindQueryFailed:
		// Финальный ответ (или текст ошибки вместо него) показываем в консоли
		fmt.Println("----------------------------------------")
		fmt.Println(ev.Text)
		fmt.Println("----------------------------------------")
		if chime != nil {
			go func() { _ = chime.Play(ctx) }()
		}
		if speaker != nil && ev.Kind == events.KindAnswerFinal {
			go func() {
				if err := speaker.Synthesize(ctx, ev.Text); err != nil {
					sugar.Warnw("TTS failed", "error", err)
				}
			}()
		}
	case events.KindAutoSolveChanged:
		sugar.Infow("Auto-solve changed", "state", ev.Text)
	case events.KindMonitorStopped:
		sugar.Infow("Monitor stopped", "reason", ev.Text)
	}
}
