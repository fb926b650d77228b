package config

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // Режим дебага

	// LLM
	Model           string  `env:"MODEL"`             // Имя модели OpenAI, по умолчанию gpt-4o-mini
	PromptProfile   string  `env:"PROMPT_PROFILE"`    // Профиль системного промпта: default|interview
	MaxOutputTokens int     `env:"MAX_OUTPUT_TOKENS"` // Лимит токенов ответа
	Temperature     float64 `env:"TEMPERATURE"`       // Температура генерации

	// Источник входного текста и цикл наблюдения
	Source               string        `env:"SOURCE"`                 // clipboard|screen|relay
	ScreenRegion         string        `env:"SCREEN_REGION"`          // Регион экрана "x,y,WxH"; пусто = весь основной дисплей
	PollInterval         time.Duration `env:"POLL_INTERVAL"`          // Период опроса источника
	DebounceDelay        time.Duration `env:"DEBOUNCE_DELAY"`         // Тихий период перед запуском запроса
	AutoSolve            bool          `env:"AUTO_SOLVE"`             // Автоматически запускать запрос при изменении текста
	MaxConsecutiveErrors int           `env:"MAX_CONSECUTIVE_ERRORS"` // Сколько ошибок чтения подряд до остановки наблюдения

	// Выполнение запросов
	OverlapPolicy       string `env:"OVERLAP_POLICY"`        // Политика при наложении запросов: skip|preempt
	QueryTimeoutSeconds int    `env:"QUERY_TIMEOUT_SECONDS"` // Таймаут одного запроса
	MaxHistoryRecords   int    `env:"MAX_HISTORY_RECORDS"`   // Максимум завершённых ответов в истории

	// Зеркало для телефона
	Mirror MirrorConfig

	// Горячие клавиши (Windows)
	HotkeysEnabled bool `env:"HOTKEYS_ENABLED"`

	// Звук готовности ответа
	ChimeEnabled          bool   `env:"CHIME_ENABLED"`
	NotificationSoundPath string `env:"NOTIFICATION_SOUND_PATH"` // Путь к звуковому файлу уведомления

	// Озвучка ответов
	TTSEnabled bool   `env:"TTS_ENABLED"`
	TTSService string `env:"TTS_SERVICE"` // google|gemini, по умолчанию google
	GoogleTTS  GoogleTTSConfig
	GeminiTTS  GeminiTTSConfig

	// Chat / Twitch — вопросы из чата как источник relay
	TwitchUsername   string `env:"TWITCH_USERNAME"`    // Имя пользователя Twitch (логин)
	TwitchOAuthToken string `env:"TWITCH_OAUTH_TOKEN"` // OAuth токен Twitch (может быть без префикса oauth:)
	TwitchChannel    string `env:"TWITCH_CHANNEL"`     // Канал Twitch (один), без #
}

// MirrorConfig конфигурация HTTP-сервера для второго экрана (телефона).
type MirrorConfig struct {
	Enabled  bool   `env:"MIRROR_ENABLED"`
	BindAddr string `env:"MIRROR_BIND_ADDR"` // Адрес слушателя, напр. 0.0.0.0:5000
	ShowQR   bool   `env:"MIRROR_QR"`        // Печатать QR-код с URL зеркала при старте
}

// GoogleTTSConfig конфигурация синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	Language     string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice        string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch        float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb float64 `env:"GOOGLE_TTS_VOLUME_DB"`
	// Тип входа: text|ssml. Пусто — text.
	InputType string `env:"GOOGLE_TTS_INPUT_TYPE"`
}

// GeminiTTSConfig конфигурация синтеза речи через Gemini-TTS (Cloud TTS v1beta1).
type GeminiTTSConfig struct {
	Endpoint     string  `env:"GEMINI_TTS_ENDPOINT"` // Пусто — дефолтный endpoint text:synthesize
	ModelName    string  `env:"GEMINI_TTS_MODEL"`
	Language     string  `env:"GEMINI_TTS_LANGUAGE"`
	VoiceName    string  `env:"GEMINI_TTS_VOICE"`
	Prompt       string  `env:"GEMINI_TTS_PROMPT"` // Стилистический промпт для голоса
	SpeakingRate float64 `env:"GEMINI_TTS_SPEAKING_RATE"`
	Pitch        float64 `env:"GEMINI_TTS_PITCH"`
	VolumeGainDb float64 `env:"GEMINI_TTS_VOLUME_DB"`
	InputType    string  `env:"GEMINI_TTS_INPUT_TYPE"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		// LLM
		Model:           "gpt-4o-mini",
		PromptProfile:   "interview",
		MaxOutputTokens: 1000,
		Temperature:     0.6,
		// Наблюдение
		Source:               "clipboard",
		PollInterval:         time.Second,
		DebounceDelay:        750 * time.Millisecond,
		AutoSolve:            true,
		MaxConsecutiveErrors: 5,
		// Запросы
		OverlapPolicy:       "preempt", // skip|preempt
		QueryTimeoutSeconds: 60,
		MaxHistoryRecords:   50,
		// Зеркало
		Mirror: MirrorConfig{
			Enabled:  true,
			BindAddr: "0.0.0.0:5000",
			ShowQR:   true,
		},
		HotkeysEnabled:        true,
		ChimeEnabled:          true,
		NotificationSoundPath: "sound/answer.mp3",
		// Озвучка выключена по умолчанию: на собеседовании она неуместна
		TTSEnabled: false,
		TTSService: "google",
		GoogleTTS: GoogleTTSConfig{
			Language:     "en-US",
			Voice:        "en-US-Standard-C",
			SpeakingRate: 1.0,
			Pitch:        0.0,
			VolumeGainDb: 0.0,
			InputType:    "", // text
		},
		GeminiTTS: GeminiTTSConfig{
			Language:     "en-US",
			SpeakingRate: 1.0,
		},
	}
}

// NewConfig загружает конфигурацию приложения.
func NewConfig() *Config {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	// LLM
	flag.StringVar(&cfg.Model, "model", cfg.Model, "имя модели OpenAI (напр. gpt-4o-mini, gpt-4o)")
	flag.StringVar(&cfg.PromptProfile, "prompt-profile", cfg.PromptProfile, "профиль системного промпта: default|interview")
	flag.IntVar(&cfg.MaxOutputTokens, "max-output-tokens", cfg.MaxOutputTokens, "лимит токенов ответа")
	flag.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "температура генерации")
	// Наблюдение
	flag.StringVar(&cfg.Source, "source", cfg.Source, "источник входного текста: clipboard|screen|relay")
	flag.StringVar(&cfg.ScreenRegion, "screen-region", cfg.ScreenRegion, "регион экрана x,y,WxH; пусто = основной дисплей")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "период опроса источника, напр. 1s")
	flag.DurationVar(&cfg.DebounceDelay, "debounce-delay", cfg.DebounceDelay, "тихий период перед запуском запроса, напр. 750ms")
	flag.BoolVar(&cfg.AutoSolve, "auto-solve", cfg.AutoSolve, "автоматически запускать запрос при изменении текста")
	flag.IntVar(&cfg.MaxConsecutiveErrors, "max-consecutive-errors", cfg.MaxConsecutiveErrors, "ошибок чтения подряд до остановки наблюдения")
	// Запросы
	flag.StringVar(&cfg.OverlapPolicy, "overlap-policy", cfg.OverlapPolicy, "политика наложения запросов: skip|preempt")
	flag.IntVar(&cfg.QueryTimeoutSeconds, "query-timeout-seconds", cfg.QueryTimeoutSeconds, "таймаут одного запроса в секундах")
	flag.IntVar(&cfg.MaxHistoryRecords, "max-history-records", cfg.MaxHistoryRecords, "максимум завершённых ответов в истории")
	// Зеркало
	flag.BoolVar(&cfg.Mirror.Enabled, "mirror-enabled", cfg.Mirror.Enabled, "включить HTTP-зеркало для телефона")
	flag.StringVar(&cfg.Mirror.BindAddr, "mirror-bind-addr", cfg.Mirror.BindAddr, "адрес зеркала (напр. 0.0.0.0:5000)")
	flag.BoolVar(&cfg.Mirror.ShowQR, "mirror-qr", cfg.Mirror.ShowQR, "печатать QR-код с URL зеркала при старте")
	// Горячие клавиши и звук
	flag.BoolVar(&cfg.HotkeysEnabled, "hotkeys-enabled", cfg.HotkeysEnabled, "включить глобальные горячие клавиши (Windows)")
	flag.BoolVar(&cfg.ChimeEnabled, "chime-enabled", cfg.ChimeEnabled, "проигрывать звук при готовности ответа")
	flag.StringVar(&cfg.NotificationSoundPath, "notification-sound-path", cfg.NotificationSoundPath, "путь к звуковому файлу уведомления (mp3 или wav)")
	// Озвучка
	flag.BoolVar(&cfg.TTSEnabled, "tts-enabled", cfg.TTSEnabled, "озвучивать готовые ответы")
	flag.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "выбор сервиса TTS: google|gemini")
	flag.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, напр. en-US")
	flag.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "имя голоса, напр. en-US-Standard-C")
	flag.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "скорость речи (1.0 по умолчанию)")
	flag.Float64Var(&cfg.GoogleTTS.Pitch, "google-tts-pitch", cfg.GoogleTTS.Pitch, "тон (полутоны), может быть отрицательным")
	flag.Float64Var(&cfg.GoogleTTS.VolumeGainDb, "google-tts-volume-db", cfg.GoogleTTS.VolumeGainDb, "усиление громкости (дБ)")
	flag.StringVar(&cfg.GoogleTTS.InputType, "google-tts-input-type", cfg.GoogleTTS.InputType, "тип входа: text|ssml")
	flag.StringVar(&cfg.GeminiTTS.ModelName, "gemini-tts-model", cfg.GeminiTTS.ModelName, "имя модели Gemini-TTS")
	flag.StringVar(&cfg.GeminiTTS.VoiceName, "gemini-tts-voice", cfg.GeminiTTS.VoiceName, "имя голоса Gemini-TTS")
	flag.StringVar(&cfg.GeminiTTS.Prompt, "gemini-tts-prompt", cfg.GeminiTTS.Prompt, "стилистический промпт для голоса Gemini-TTS")
	// Chat/Twitch
	flag.StringVar(&cfg.TwitchUsername, "twitch-username", cfg.TwitchUsername, "логин Twitch для подключения к чату")
	flag.StringVar(&cfg.TwitchOAuthToken, "twitch-oauth-token", cfg.TwitchOAuthToken, "OAuth токен Twitch (может быть без префикса oauth:)")
	flag.StringVar(&cfg.TwitchChannel, "twitch-channel", cfg.TwitchChannel, "канал Twitch (без #)")
	flag.Parse()

	return cfg
}
