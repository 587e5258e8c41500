// Package actions dispatches named side-effecting operations.
//
// The executor is a flat dispatch table from action name to handler. It
// knows nothing about the conversation graph; handlers receive only the
// call context. Failures never propagate past this boundary: unknown
// names, handler errors, and handler panics all become a user-safe
// ActionResult with Err set.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/domain"
)

// Call carries the identity and inputs an action handler needs.
type Call struct {
	// UserID identifies the conversation owner (e.g. a phone number).
	UserID string

	// Language is the active conversation language.
	Language domain.Language

	// Template is the name of the template the action was triggered from.
	Template string

	// Token is the validated option token that selected the action.
	Token string

	// Params are static parameters configured on the template for this
	// action. Handlers may decode them with DecodeParams.
	Params map[string]any
}

// Handler executes one named action. It may return an error or panic;
// both are contained by the executor.
type Handler interface {
	Handle(ctx context.Context, call Call) (domain.ActionResult, error)
}

// Func adapts a plain function to the Handler interface.
type Func func(ctx context.Context, call Call) (domain.ActionResult, error)

// Handle implements Handler.
func (f Func) Handle(ctx context.Context, call Call) (domain.ActionResult, error) {
	return f(ctx, call)
}

// Executor manages the registered action handlers.
type Executor struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
	apology  string
}

// Option configures the Executor.
type Option func(*Executor)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger.With("component", "actions")
	}
}

// WithApology overrides the user-facing message emitted when an action
// fails without messages of its own.
func WithApology(msg string) Option {
	return func(e *Executor) {
		e.apology = msg
	}
}

// DefaultApology is the fallback user-facing failure message.
const DefaultApology = "Sorry, something went wrong on our side. Please try again."

// NewExecutor creates an empty executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		handlers: make(map[string]Handler),
		logger:   logging.NewNop(),
		apology:  DefaultApology,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a handler for an action name.
// If a handler with the same name exists, it is overwritten.
func (e *Executor) Register(name string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[name] = h
}

// RegisterFunc registers a plain function as a handler.
func (e *Executor) RegisterFunc(name string, fn Func) {
	e.Register(name, fn)
}

// Known reports whether a handler is registered for the name.
func (e *Executor) Known(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.handlers[name]
	return ok
}

// Execute runs the named action to completion and always returns a usable
// result, so the caller's turn always completes.
func (e *Executor) Execute(ctx context.Context, name string, call Call) domain.ActionResult {
	e.mu.RLock()
	handler, ok := e.handlers[name]
	e.mu.RUnlock()

	if !ok {
		e.logger.Error("unknown action", "action", name, "template", call.Template)
		return e.failure()
	}

	result, err := e.run(ctx, handler, name, call)
	if err != nil {
		e.logger.Error("action failed", "action", name, "template", call.Template, "err", err)
		return e.failure()
	}
	if result.Err && len(result.Messages) == 0 {
		result.Messages = []domain.MessagePart{domain.Body(e.apology)}
	}
	return result
}

// run invokes the handler, converting panics into errors.
func (e *Executor) run(ctx context.Context, h Handler, name string, call Call) (result domain.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panicked: %v", name, r)
		}
	}()
	return h.Handle(ctx, call)
}

func (e *Executor) failure() domain.ActionResult {
	return domain.ActionResult{
		Err:      true,
		Messages: []domain.MessagePart{domain.Body(e.apology)},
	}
}
