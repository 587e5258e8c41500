package menuflow

import (
	"context"
	"log/slog"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/internal/runtime"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/ports"
	"github.com/fynbosch/menuflow/pkg/registry"
)

// Engine is the high-level entry point for the Menuflow library.
// It wires the template registry, the action executor, and the state
// machine, and exposes the per-turn API a transport handler consumes.
type Engine struct {
	registry *registry.Registry
	executor *actions.Executor
	runtime  *runtime.Engine

	logger      *slog.Logger
	defaultLang domain.Language
	runtimeOpts []runtime.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDefaultLanguage sets the language used before a user picks one.
func WithDefaultLanguage(lang domain.Language) Option {
	return func(e *Engine) {
		e.defaultLang = lang
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDefaultLanguage(lang))
	}
}

// WithApology overrides the generic internal-error message shown to
// users when an action or classification fails.
func WithApology(msg string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithApology(msg))
	}
}

// New initializes a Menuflow Engine over a template source.
// Registry, executor and state machine are constructed once here and
// injected explicitly; nothing is reached through ambient globals.
func New(source ports.TemplateSource, opts ...Option) *Engine {
	eng := &Engine{
		logger:      logging.NewNop(),
		defaultLang: domain.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(eng)
	}

	eng.registry = registry.New(source, registry.WithLogger(eng.logger))
	eng.executor = actions.NewExecutor(actions.WithLogger(eng.logger))

	runtimeOpts := append([]runtime.Option{runtime.WithLogger(eng.logger)}, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(eng.registry, eng.executor, runtimeOpts...)

	return eng
}

// RegisterAction binds an action identifier to a handler.
// Bindings should be completed before serving traffic; missing entries
// surface as a user-safe failure, not a crash.
func (e *Engine) RegisterAction(name string, h actions.Handler) {
	e.executor.Register(name, h)
}

// RegisterActionFunc binds a plain function as an action handler.
func (e *Engine) RegisterActionFunc(name string, fn actions.Func) {
	e.executor.RegisterFunc(name, fn)
}

// Preload loads every configured language graph, surfacing broken
// configuration at startup instead of mid-conversation.
func (e *Engine) Preload() error {
	return e.registry.Preload()
}

// Turn processes one inbound utterance for a user and returns the
// outbound messages plus the position the caller must persist.
func (e *Engine) Turn(ctx context.Context, userID string, pos domain.Position, input string) (*domain.Turn, error) {
	return e.runtime.Turn(ctx, userID, pos, input)
}

// Graph returns the loaded graph for a language, for introspection and
// visualization tools.
func (e *Engine) Graph(lang domain.Language) (*domain.Graph, error) {
	return e.registry.Graph(lang)
}

// DefaultLanguage returns the language assigned to first-time users.
func (e *Engine) DefaultLanguage() domain.Language {
	return e.defaultLang
}
