// Package registry loads and validates per-language template graphs.
//
// A graph either loads completely, or the load fails with ConfigErrors;
// no partial graph is ever published. Reload replaces the in-memory graph
// reference only after a complete, successful load, so concurrent readers
// at most observe a stale-but-valid graph.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/ports"
)

// Registry holds the loaded graphs, one per language.
type Registry struct {
	source ports.TemplateSource
	logger *slog.Logger

	mu     sync.RWMutex
	graphs map[domain.Language]*domain.Graph
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a Registry backed by the given source.
func New(source ports.TemplateSource, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		logger: logging.NewNop(),
		graphs: make(map[domain.Language]*domain.Graph),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches, decodes and validates the graph for a language, then
// publishes it, replacing any previously loaded graph for that language.
// Loading is idempotent and side-effect-free apart from the swap.
func (r *Registry) Load(lang domain.Language) (*domain.Graph, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("load graph: %w: %q", domain.ErrUnknownLanguage, lang)
	}

	raw, err := r.source.Fetch(lang)
	if err != nil {
		return nil, fmt.Errorf("fetch templates for %s: %w", lang, err)
	}

	graph, err := Decode(lang, raw)
	if err != nil {
		return nil, err
	}

	if err := ValidateGraph(graph); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.graphs[lang] = graph
	r.mu.Unlock()

	r.logger.Debug("graph loaded", "lang", lang, "templates", len(graph.Templates))
	return graph, nil
}

// Graph returns the published graph for a language, loading it on first
// use. Callers never observe a partially loaded graph.
func (r *Registry) Graph(lang domain.Language) (*domain.Graph, error) {
	r.mu.RLock()
	graph, ok := r.graphs[lang]
	r.mu.RUnlock()
	if ok {
		return graph, nil
	}
	return r.Load(lang)
}

// Preload loads every language the source provides. It fails on the
// first broken graph, making configuration defects a startup error
// rather than a request-time surprise.
func (r *Registry) Preload() error {
	langs, err := r.source.Languages()
	if err != nil {
		return fmt.Errorf("list configured languages: %w", err)
	}
	for _, lang := range langs {
		if _, err := r.Load(lang); err != nil {
			return err
		}
	}
	return nil
}
