package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynbosch/menuflow/pkg/domain"
)

func TestBuildPreservesOrder(t *testing.T) {
	env := Build("27820000001", []domain.MessagePart{
		domain.Body("Here is your report."),
		domain.Media("https://files.example.com/report.pdf"),
		domain.Body("Anything else?"),
		domain.Redirect("payments_menu"),
	})

	assert.Equal(t, "27820000001", env.To)
	require.Len(t, env.Messages, 4)
	assert.Equal(t, Item{Type: "text", Text: "Here is your report."}, env.Messages[0])
	assert.Equal(t, Item{Type: "media", URL: "https://files.example.com/report.pdf"}, env.Messages[1])
	assert.Equal(t, Item{Type: "text", Text: "Anything else?"}, env.Messages[2])
	assert.Equal(t, Item{Type: "redirect", Target: "payments_menu"}, env.Messages[3])
}

func TestBuildEmpty(t *testing.T) {
	env := Build("27820000001", nil)
	assert.NotNil(t, env.Messages)
	assert.Empty(t, env.Messages)
}

func TestEnvelopeJSON(t *testing.T) {
	env := Build("27820000001", []domain.MessagePart{domain.Body("hi")})

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"to":"27820000001","messages":[{"type":"text","text":"hi"}]}`,
		string(raw))
}
