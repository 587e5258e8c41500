package menuflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynbosch/menuflow"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/adapters/memory"
	"github.com/fynbosch/menuflow/pkg/domain"
)

const demoDoc = `
entry: language_selector
templates:
  language_selector:
    message: "Welcome! Which language would you like to use?"
    validator: language
    error_options: [English, Zulu, Afrikaans]
    next: main_menu
  main_menu:
    message: "Reply 1 for your balance."
    error_options: ["1"]
    actions:
      "1": check_balance
    next: main_menu
`

func newDemoEngine(t *testing.T) *menuflow.Engine {
	t.Helper()
	source := memory.NewSource(map[domain.Language]string{domain.English: demoDoc})
	return menuflow.New(source)
}

func TestEngine_EndToEnd(t *testing.T) {
	eng := newDemoEngine(t)
	eng.RegisterActionFunc("check_balance", func(_ context.Context, call actions.Call) (domain.ActionResult, error) {
		return domain.ActionResult{
			Messages: []domain.MessagePart{domain.Body("Your balance is R42.00.")},
			Stay:     true,
		}, nil
	})

	ctx := context.Background()

	// First contact anchors at the entry template.
	turn, err := eng.Turn(ctx, "27820000001", *domain.NewPosition(eng.DefaultLanguage()), "hi")
	require.NoError(t, err)
	assert.Equal(t, "language_selector", turn.Position.Current)

	// Pick a language, land on the menu.
	turn, err = eng.Turn(ctx, "27820000001", turn.Position, "English")
	require.NoError(t, err)
	assert.Equal(t, "main_menu", turn.Position.Current)

	// Trigger the action.
	turn, err = eng.Turn(ctx, "27820000001", turn.Position, "1")
	require.NoError(t, err)
	require.NotEmpty(t, turn.Messages)
	assert.Equal(t, "Your balance is R42.00.", turn.Messages[0].Text)
	assert.Equal(t, "main_menu", turn.Position.Current)
}

func TestEngine_PreloadSurfacesBrokenConfig(t *testing.T) {
	source := memory.NewSource(map[domain.Language]string{
		domain.English: `entry: nowhere
templates:
  welcome:
    message: "hi"
`,
	})
	eng := menuflow.New(source)

	err := eng.Preload()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestEngine_GraphIntrospection(t *testing.T) {
	eng := newDemoEngine(t)

	graph, err := eng.Graph(domain.English)
	require.NoError(t, err)
	assert.Equal(t, "language_selector", graph.Entry)
	assert.Len(t, graph.Templates, 2)
}
