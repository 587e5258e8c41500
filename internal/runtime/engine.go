// Package runtime implements the conversation state machine.
//
// Each turn is an independent computation over an externally supplied
// position and the inbound utterance. The engine holds no mutable state
// of its own beyond the injected registry and executor; serializing
// concurrent turns for one user is the caller's contract.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/registry"
)

// Engine orchestrates one conversation turn: validate, classify, then
// act or route, and decide the next template and outbound messages.
type Engine struct {
	registry *registry.Registry
	executor *actions.Executor
	logger   *slog.Logger

	defaultLang domain.Language
	apology     string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With("component", "runtime")
	}
}

// WithDefaultLanguage sets the language used before the user picks one.
func WithDefaultLanguage(lang domain.Language) Option {
	return func(e *Engine) {
		e.defaultLang = lang
	}
}

// WithApology overrides the generic internal-error message.
func WithApology(msg string) Option {
	return func(e *Engine) {
		e.apology = msg
	}
}

// NewEngine creates the state machine with its collaborators.
func NewEngine(reg *registry.Registry, exec *actions.Executor, opts ...Option) *Engine {
	e := &Engine{
		registry:    reg,
		executor:    exec,
		logger:      logging.NewNop(),
		defaultLang: domain.DefaultLanguage,
		apology:     actions.DefaultApology,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Turn processes one inbound utterance against the user's position and
// returns the outbound messages plus the position to persist.
//
// Validation failures and action failures are user-facing outcomes and
// never surface as errors. A non-nil error means a configuration defect
// (broken or missing graph) that the operator must see; the caller
// should not forward it to the end user.
func (e *Engine) Turn(ctx context.Context, userID string, pos domain.Position, input string) (*domain.Turn, error) {
	if !pos.Language.Valid() {
		pos.Language = e.defaultLang
	}

	graph, err := e.registry.Graph(pos.Language)
	if err != nil {
		return nil, fmt.Errorf("active graph: %w", err)
	}

	// First-ever turn: no prior prompt exists to validate against.
	if pos.Current == "" {
		return e.anchor(graph, pos), nil
	}

	tpl, ok := graph.Template(pos.Current)
	if !ok {
		// The persisted position references a template that no longer
		// exists (config changed between deploys). Re-anchor at entry
		// rather than stranding the user.
		e.logger.Warn("current template missing from graph, re-anchoring",
			"user", userID, "template", pos.Current, "lang", pos.Language)
		return e.anchor(graph, pos), nil
	}

	token, ok := registry.Validate(input, tpl)
	if !ok {
		return e.reprompt(pos, tpl), nil
	}

	if tpl.Validator == domain.ValidatorLanguage {
		return e.switchLanguage(userID, pos, tpl, token)
	}

	switch ev := Classify(token, tpl); ev.Kind {
	case EventAction:
		return e.runAction(ctx, graph, userID, pos, tpl, token, ev.Action), nil
	case EventRouting:
		return e.route(graph, pos, tpl, ev.Target), nil
	default:
		// Validation constrained the token to actions ∪ routing, so this
		// is a registry/validator mismatch bug, not user input.
		e.logger.Error("validated token matched neither actions nor routing",
			"user", userID, "template", tpl.Name, "token", token)
		return e.apologize(pos), nil
	}
}

// anchor emits the graph's entry prompt and points the position at it.
func (e *Engine) anchor(graph *domain.Graph, pos domain.Position) *domain.Turn {
	entry := graph.EntryTemplate()
	pos.Current = entry.Name
	pos.Previous = ""
	pos.HasStarted = true
	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body(entry.Message)},
		Position: pos,
	}
}

// reprompt re-emits the current template's formatted error message,
// leaving the position untouched. Repeating invalid input N times yields
// the same template and the same enumerated options every time.
func (e *Engine) reprompt(pos domain.Position, tpl *domain.Template) *domain.Turn {
	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body(tpl.ErrorMessage())},
		Position: pos,
	}
}

func (e *Engine) apologize(pos domain.Position) *domain.Turn {
	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body(e.apology)},
		Position: pos,
	}
}

// switchLanguage adopts the canonical language, reloads its graph, and
// re-anchors the conversation on the selector's configured next template
// in the new graph.
func (e *Engine) switchLanguage(userID string, pos domain.Position, tpl *domain.Template, token string) (*domain.Turn, error) {
	lang, err := domain.ParseLanguage(token)
	if err != nil {
		e.logger.Error("language validator accepted an unparseable token",
			"user", userID, "token", token)
		return e.apologize(pos), nil
	}

	// Explicit reload: a language switch is the one trigger that replaces
	// the in-memory graph for that language.
	graph, err := e.registry.Load(lang)
	if err != nil {
		return nil, fmt.Errorf("switch language to %s: %w", lang, err)
	}

	// Re-anchor on the equivalent selector node in the new graph so the
	// configured pointers come from the adopted language, not the old one.
	anchor := tpl
	if equivalent, ok := graph.Template(tpl.Name); ok {
		anchor = equivalent
	}

	nextName := anchor.Next
	if nextName == "" {
		nextName = graph.Entry
	}
	next, ok := graph.Template(nextName)
	if !ok {
		e.logger.Error("selector next missing after reload",
			"user", userID, "lang", lang, "next", nextName)
		return e.apologize(pos), nil
	}

	pos.Language = lang
	pos.Current = next.Name
	pos.Previous = anchor.Previous
	pos.HasStarted = true

	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body(next.Message)},
		Position: pos,
	}, nil
}

// runAction dispatches to the executor and folds its result into the
// turn. Failed actions leave the position unchanged so the user can
// retry or pick another option.
func (e *Engine) runAction(ctx context.Context, graph *domain.Graph, userID string, pos domain.Position, tpl *domain.Template, token, action string) *domain.Turn {
	result := e.executor.Execute(ctx, action, actions.Call{
		UserID:   userID,
		Language: pos.Language,
		Template: tpl.Name,
		Token:    token,
		Params:   tpl.ActionParams[action],
	})

	if result.Err {
		return &domain.Turn{Messages: result.Messages, Position: pos}
	}

	next := e.resolveActionNext(graph, tpl, result)

	messages := result.Messages
	if next != "" && next != tpl.Name {
		target := graph.Templates[next]
		pos.Current = target.Name
		pos.Previous = target.Previous
		// The conversation moved, so the new node's prompt follows the
		// action output in the same envelope.
		messages = append(messages, domain.Body(target.Message))
	}

	return &domain.Turn{Messages: messages, Position: pos}
}

// resolveActionNext picks the post-action template: the handler's hint
// when it resolves in the active graph, nothing when the handler asked
// to stay, the template's configured next otherwise.
func (e *Engine) resolveActionNext(graph *domain.Graph, tpl *domain.Template, result domain.ActionResult) string {
	if result.Next != "" {
		if _, ok := graph.Template(result.Next); ok {
			return result.Next
		}
		// The hint may name a template valid only in another language's
		// graph; fall back to the configured pointer.
		e.logger.Warn("action next hint not in active graph",
			"hint", result.Next, "template", tpl.Name, "lang", graph.Language)
		return tpl.Next
	}
	if result.Stay {
		return ""
	}
	return tpl.Next
}

// route moves the conversation along a content edge. A self-loop
// re-emits the current prompt without any state change.
func (e *Engine) route(graph *domain.Graph, pos domain.Position, tpl *domain.Template, target string) *domain.Turn {
	if target == tpl.Name {
		return &domain.Turn{
			Messages: []domain.MessagePart{domain.Body(tpl.Message)},
			Position: pos,
		}
	}

	next, ok := graph.Template(target)
	if !ok {
		// Closure is checked at load, so a miss here is an internal bug.
		e.logger.Error("routing target missing from graph",
			"template", tpl.Name, "target", target, "lang", graph.Language)
		return e.apologize(pos)
	}

	pos.Current = next.Name
	pos.Previous = next.Previous

	return &domain.Turn{
		Messages: []domain.MessagePart{domain.Body(next.Message)},
		Position: pos,
	}
}
