package domain

// Position is the per-user conversation state persisted between turns.
// The state machine consumes the previous turn's Position and produces
// the next one; it never persists anything itself.
type Position struct {
	// Current is the name of the active template. Empty is the unique
	// initial state, seen exactly once per user lifecycle.
	Current string `json:"current_template"`

	// Previous is the back-pointer adopted from template configuration
	// as the conversation moves.
	Previous string `json:"previous_template,omitempty"`

	Language Language `json:"language"`

	// HasStarted flips to true once the first prompt has been emitted.
	HasStarted bool `json:"has_started"`
}

// NewPosition creates the initial position for a first-time user.
func NewPosition(lang Language) *Position {
	if !lang.Valid() {
		lang = DefaultLanguage
	}
	return &Position{Language: lang}
}

// Started reports whether the user has received their first prompt.
func (p *Position) Started() bool {
	return p.HasStarted && p.Current != ""
}
