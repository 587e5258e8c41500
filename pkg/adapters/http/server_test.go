package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynbosch/menuflow"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/adapters/memory"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/envelope"
	"github.com/fynbosch/menuflow/pkg/session"
)

// stubEngine echoes the input back and advances the position, recording
// what it was called with.
type stubEngine struct {
	lastUserID string
	lastInput  string
	lastPos    domain.Position
	err        error
}

func (s *stubEngine) Turn(_ context.Context, userID string, pos domain.Position, input string) (*domain.Turn, error) {
	s.lastUserID = userID
	s.lastInput = input
	s.lastPos = pos
	if s.err != nil {
		return nil, s.err
	}

	pos.Current = "main_menu"
	pos.HasStarted = true
	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body("echo: " + input)},
		Position: pos,
	}, nil
}

func (s *stubEngine) DefaultLanguage() domain.Language { return domain.English }

func newTestServer(t *testing.T, eng Engine, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(memory.NewStore())
	return NewHandler(eng, sessions, opts...), sessions
}

func TestWebhook_FlatPayload(t *testing.T) {
	eng := &stubEngine{}
	handler, sessions := newTestServer(t, eng)

	body := `{"from": "27820000001", "text": "hello"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "27820000001", eng.lastUserID)
	assert.Equal(t, "hello", eng.lastInput)
	assert.Equal(t, domain.English, eng.lastPos.Language, "first contact uses the default language")

	var env envelope.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "27820000001", env.To)
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "echo: hello", env.Messages[0].Text)

	// The advanced position was persisted.
	pos, err := sessions.Store().Load(context.Background(), "27820000001")
	require.NoError(t, err)
	assert.Equal(t, "main_menu", pos.Current)
}

func TestWebhook_WhatsAppCloudPayload(t *testing.T) {
	eng := &stubEngine{}
	handler, _ := newTestServer(t, eng)

	body := `{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "27820000002",
						"text": {"body": "2"}
					}]
				}
			}]
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "27820000002", eng.lastUserID)
	assert.Equal(t, "2", eng.lastInput)
}

func TestWebhook_SecondTurnReusesPosition(t *testing.T) {
	eng := &stubEngine{}
	handler, sessions := newTestServer(t, eng)

	pos := domain.NewPosition(domain.Zulu)
	pos.Current = "invoices_menu"
	pos.HasStarted = true
	require.NoError(t, sessions.Store().Save(context.Background(), "27820000001", pos))

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"from": "27820000001", "text": "back"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "invoices_menu", eng.lastPos.Current)
	assert.Equal(t, domain.Zulu, eng.lastPos.Language)
}

func TestWebhook_InvalidPayload(t *testing.T) {
	handler, _ := newTestServer(t, &stubEngine{})

	for _, body := range []string{`{}`, `not json`, `{"text": "no sender"}`} {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload: %s", body)
	}
}

func TestWebhook_VerifierRejects(t *testing.T) {
	handler, _ := newTestServer(t, &stubEngine{},
		WithVerifier(func(*http.Request) error { return errors.New("bad signature") }))

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"from": "27820000001", "text": "hi"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhook_EngineErrorIsOpaque(t *testing.T) {
	eng := &stubEngine{err: errors.New("graph for zu is broken")}
	handler, _ := newTestServer(t, eng)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"from": "27820000001", "text": "hi"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "broken", "internal detail must not leak to the transport")
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t, &stubEngine{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestServer(t, &stubEngine{})

	// Generate one successful turn so the counter exists.
	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"from": "27820000001", "text": "hi"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "menuflow_turns_total")
}

func TestWebhook_ConversationFlow(t *testing.T) {
	source := memory.NewSource(map[domain.Language]string{
		domain.English: `
entry: language_selector
templates:
  language_selector:
    message: "Welcome! Which language would you like to use?"
    validator: language
    error_options: [English, Zulu, Afrikaans]
    next: main_menu
  main_menu:
    message: "Reply 1 for opening hours."
    error_options: ["1"]
    actions:
      "1": static_reply
    action_params:
      static_reply:
        body: "Open weekdays 08:00-17:00."
        stay: true
    next: main_menu
`,
	})
	eng := menuflow.New(source)
	eng.RegisterAction("static_reply", actions.StaticReply())
	require.NoError(t, eng.Preload())

	handler, _ := newTestServer(t, eng)

	send := func(text string) envelope.Envelope {
		t.Helper()
		payload, err := json.Marshal(map[string]string{"from": "27820000001", "text": text})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(payload)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var env envelope.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		return env
	}

	// First contact anchors at the language selector.
	env := send("hi")
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "Welcome! Which language would you like to use?", env.Messages[0].Text)

	// Picking a language lands on the menu.
	env = send("English")
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "Reply 1 for opening hours.", env.Messages[0].Text)

	// The menu action answers and stays put.
	env = send("1")
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "Open weekdays 08:00-17:00.", env.Messages[0].Text)

	env = send("1")
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "Open weekdays 08:00-17:00.", env.Messages[0].Text)
}

func TestParseInbound(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID string
		text   string
		ok     bool
	}{
		{"flat", `{"from":"u1","text":"hi"}`, "u1", "hi", true},
		{"flat empty from", `{"from":"","text":"hi"}`, "", "hi", false},
		{"nested", `{"entry":[{"changes":[{"value":{"messages":[{"from":"u2","text":{"body":"yo"}}]}}]}]}`, "u2", "yo", true},
		{"empty", `{}`, "", "", false},
		{"garbage", `not json`, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, text, ok := parseInbound([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.userID, userID)
				assert.Equal(t, tt.text, text)
			}
		})
	}
}
