// Package http adapts the engine to a webhook transport.
//
// The handler owns the request/response plumbing only: inbound parsing,
// per-user turn serialization via the session manager, and envelope
// encoding. Inbound authenticity (signature checks) is the deployment's
// concern and is pluggable via WithVerifier.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/envelope"
	"github.com/fynbosch/menuflow/pkg/session"
)

// Engine defines the interface the webhook handler needs from the
// Menuflow state machine core.
type Engine interface {
	Turn(ctx context.Context, userID string, pos domain.Position, input string) (*domain.Turn, error)
	DefaultLanguage() domain.Language
}

// Verifier authenticates an inbound request before the core is invoked.
type Verifier func(r *http.Request) error

// Server handles webhook deliveries for one engine instance.
type Server struct {
	engine   Engine
	sessions *session.Manager
	logger   *slog.Logger
	verify   Verifier
	metrics  *metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With("component", "http")
	}
}

// WithVerifier installs an inbound request authenticator.
// The default accepts every request.
func WithVerifier(v Verifier) Option {
	return func(s *Server) {
		s.verify = v
	}
}

// NewHandler creates the webhook HTTP handler.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
		verify:   func(*http.Request) error { return nil },
		metrics:  newMetrics(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Post("/webhook", server.handleWebhook)
	r.Get("/healthz", server.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWebhook processes one inbound message delivery end to end:
// verify, parse, lock the user, run the turn, persist, reply.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := s.verify(r); err != nil {
		s.logger.Warn("webhook verification failed", "err", err)
		http.Error(w, "Forbidden", http.StatusForbidden)
		s.metrics.observe("forbidden", started)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.metrics.observe("bad_request", started)
		return
	}

	userID, text, ok := parseInbound(body)
	if !ok {
		s.logger.Warn("webhook payload missing sender or text")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		s.metrics.observe("bad_request", started)
		return
	}

	turn, err := s.sessions.Turn(r.Context(), userID, s.engine.DefaultLanguage(),
		func(ctx context.Context, pos domain.Position) (*domain.Turn, error) {
			return s.engine.Turn(ctx, userID, pos, text)
		})
	if err != nil {
		// Configuration and storage failures are operator problems;
		// the transport sees a plain 500 without detail.
		s.logger.Error("turn failed", "user", userID, "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		s.metrics.observe("error", started)
		return
	}

	resp := envelope.Build(userID, turn.Messages)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("envelope encode failed", "user", userID, "err", err)
	}
	s.metrics.observe("ok", started)
}

// parseInbound extracts the sender identity and utterance from the
// delivery payload. It accepts the flat shape {"from": ..., "text": ...}
// and the nested WhatsApp-cloud shape
// entry[0].changes[0].value.messages[0].{from,text.body}.
func parseInbound(body []byte) (userID, text string, ok bool) {
	doc := gjson.ParseBytes(body)

	if from := doc.Get("from"); from.Exists() {
		return from.String(), doc.Get("text").String(), from.String() != ""
	}

	msg := doc.Get("entry.0.changes.0.value.messages.0")
	if !msg.Exists() {
		return "", "", false
	}
	userID = msg.Get("from").String()
	text = msg.Get("text.body").String()
	return userID, text, userID != ""
}
