package runtime

import "github.com/fynbosch/menuflow/pkg/domain"

// EventKind distinguishes what a validated token means on a template.
type EventKind int

const (
	// EventInvalid means the token matched neither actions nor routing.
	// Validation already constrains tokens to those sets, so this marks
	// a registry/validator mismatch, not bad user input.
	EventInvalid EventKind = iota

	// EventAction triggers a side-effecting handler.
	EventAction

	// EventRouting selects the next template to display.
	EventRouting
)

// Event is the classification of one validated token.
type Event struct {
	Kind EventKind

	// Action is the bound action identifier (EventAction).
	Action string

	// Target is the bound template name (EventRouting).
	Target string
}

// Classify decides whether a validated token is an action event, a
// routing event, or neither. Actions take precedence; disjointness of
// the two maps is enforced at registry load time.
func Classify(token string, tpl *domain.Template) Event {
	if action, ok := tpl.Actions[token]; ok {
		return Event{Kind: EventAction, Action: action}
	}
	if target, ok := tpl.Routing[token]; ok {
		return Event{Kind: EventRouting, Target: target}
	}
	return Event{Kind: EventInvalid}
}
