// Одноразовый вопрос из аргументов или stdin: ответ стримится в stdout.
// Удобно для проверки ключа и промпт-профиля без запуска наблюдения.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"InterviewAssistant/internal/ai"
	"InterviewAssistant/internal/config"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// config.NewConfig уже вызвал flag.Parse; берём позиционные аргументы
	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		// Вопрос не передан аргументами — читаем stdin целиком
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			sugar.Errorw("read stdin", "error", err)
			os.Exit(1)
		}
		question = strings.TrimSpace(string(b))
	}
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: ask <question> (or pipe the question to stdin)")
		os.Exit(2)
	}

	var client ai.StreamClient
	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) == "" {
		sugar.Warnw("OPENAI_API_KEY is not set, using stub AI client")
		client = ai.NewStubClient()
	} else {
		oClient := openai.NewClient()
		client = ai.NewStreamingClient(&oClient, cfg)
	}

	var printed int
	err = client.StreamRequest(ctx, question, func(delta string) {
		fmt.Print(delta)
		printed += len(delta)
	})
	if printed > 0 {
		fmt.Println()
	}
	if err != nil {
		sugar.Errorw("request failed", "error", err)
		os.Exit(1)
	}
}
