package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"InterviewAssistant/internal/config"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AnswerSource — сторона состояния ответа, нужная зеркалу: чтение, ожидание
// обновлений и запись для проверки связи. Updated берётся до чтения Current,
// чтобы обновление между чтением и ожиданием не потерялось.
type AnswerSource interface {
	Current() string
	History() []string
	Update(text string)
	Updated() <-chan struct{}
}

// Server — HTTP-зеркало текущего ответа для телефона: одиночный GET,
// SSE/WebSocket-подписка и проверка связи.
type Server struct {
	cfg      config.MirrorConfig
	state    AnswerSource
	logger   *zap.SugaredLogger
	srv      *http.Server
	running  atomic.Bool
	upgrader websocket.Upgrader
}

func NewServer(cfg config.MirrorConfig, state AnswerSource, logger *zap.SugaredLogger) *Server {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "0.0.0.0:5000"
	}
	s := &Server{
		cfg:    cfg,
		state:  state,
		logger: logger,
		// Зеркало живёт в локальной сети; происхождение не проверяем
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/response", s.handleResponse)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/test_connection", s.handleTestConnection)

	s.srv = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// WriteTimeout не ставим: /stream и /ws держат соединение открытым
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler отдаёт маршруты сервера; используется в тестах с httptest.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		s.logger.Infow("Mirror listening", "addr", s.srv.Addr, "url", s.URL())
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("Mirror stopped with error", "error", err)
		} else {
			s.logger.Infow("Mirror stopped")
		}
	}()

	// Watch for context cancellation to stop the server
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("mirror shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.cfg.BindAddr }

// URL возвращает адрес для телефона. При привязке ко всем интерфейсам
// подставляется локальный IP исходящего маршрута.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.cfg.BindAddr)
	if err != nil {
		return "http://" + s.cfg.BindAddr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = localIP()
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// localIP определяет адрес исходящего интерфейса; данные при этом не шлются.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

type responsePayload struct {
	Response string `json:"response"`
}

func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, responsePayload{Response: s.state.Current()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
		return
	}
	hist := s.state.History()
	if hist == nil {
		hist = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"history": hist})
}

// handleStream — SSE-подписка: одно событие сразу при подключении, затем по
// событию на каждое пробуждение от WaitUpdate. Никакого busy-poll — между
// обновлениями обработчик спит на условной переменной состояния.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		updated := s.state.Updated()
		data, err := json.Marshal(responsePayload{Response: s.state.Current()})
		if err != nil {
			return
		}
		if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
			return
		}
		flusher.Flush()

		select {
		case <-updated:
		case <-r.Context().Done():
			// Отключение клиента завершает подписку
			return
		}
	}
}

// handleWS — та же подписка поверх WebSocket для клиентов без EventSource.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("ws upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Читающая горутина нужна только чтобы заметить закрытие со стороны клиента
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		updated := s.state.Updated()
		if err := conn.WriteJSON(responsePayload{Response: s.state.Current()}); err != nil {
			return
		}
		select {
		case <-updated:
		case <-ctx.Done():
			return
		}
	}
}

type testConnectionRequest struct {
	Message string `json:"message"`
}

// handleTestConnection принимает внешнее сообщение и записывает его как
// текущий ответ — телефон может проверить связь в обе стороны.
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed; use POST", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req testConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "message is required"})
		return
	}

	s.state.Update(req.Message)
	s.logger.Infow("Test connection received", "remote", r.RemoteAddr, "bytes", len(req.Message))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "received_message": req.Message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
