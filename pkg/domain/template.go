package domain

import (
	"fmt"
	"strings"
)

// ValidatorKind selects the input validation behavior for a template.
// Kinds form a closed set resolved at registry load time; unknown kinds
// are a ConfigError, never a runtime dispatch failure.
type ValidatorKind string

const (
	// ValidatorOption accepts input iff, after trimming and lower-casing,
	// it is a key of the template's Actions or Routing maps.
	ValidatorOption ValidatorKind = "option"

	// ValidatorLanguage accepts a case-insensitive match against the
	// closed language set and canonicalizes it to the display name.
	ValidatorLanguage ValidatorKind = "language"
)

// Template is a named node in a language's conversation graph.
// It bundles the prompt text, the validation rule for replies, and the
// outgoing edges (option → action, option → template).
type Template struct {
	Name string

	// Message is the outbound prompt shown when this template becomes current.
	Message string

	// ErrorOptions enumerates the human-readable valid choices, rendered
	// into ErrorFormat when validation fails.
	ErrorOptions []string

	// ErrorFormat is a format string with a single %s verb for the
	// comma-joined ErrorOptions. Empty means defaultErrorFormat.
	ErrorFormat string

	// Actions maps a normalized option token to an action identifier.
	// Keys are disjoint from Routing keys (checked at load).
	Actions map[string]string

	// ActionParams carries optional static parameters per action
	// identifier, passed through to the handler.
	ActionParams map[string]map[string]any

	// Routing maps a normalized option token to a target template name.
	Routing map[string]string

	// Previous and Next are hints for linear flows, used when no
	// per-option routing applies.
	Previous string
	Next     string

	Validator ValidatorKind
}

const defaultErrorFormat = "Sorry, I didn't understand that. Please reply with one of: %s."

// ErrorMessage renders the template's validation failure prompt with its
// enumerated options.
func (t *Template) ErrorMessage() string {
	format := t.ErrorFormat
	if format == "" {
		format = defaultErrorFormat
	}
	return fmt.Sprintf(format, strings.Join(t.ErrorOptions, ", "))
}

// Graph is the complete, validated template set for one language.
// It is immutable after load; reload replaces the whole graph.
type Graph struct {
	Language Language

	// Entry is the name of the template shown on first contact
	// (the language selector in the baseline configuration).
	Entry string

	Templates map[string]*Template
}

// Template looks up a template by name.
func (g *Graph) Template(name string) (*Template, bool) {
	t, ok := g.Templates[name]
	return t, ok
}

// EntryTemplate returns the graph's entry point.
// Its existence is guaranteed by load-time validation.
func (g *Graph) EntryTemplate() *Template {
	return g.Templates[g.Entry]
}

// Names returns all template names. Order is unspecified.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.Templates))
	for name := range g.Templates {
		names = append(names, name)
	}
	return names
}
