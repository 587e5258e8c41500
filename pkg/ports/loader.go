package ports

import "github.com/fynbosch/menuflow/pkg/domain"

// TemplateSource supplies the serialized template graph for a language.
// This decouples the registry from the storage layer (filesystem, memory,
// a config service). The source returns raw bytes; the registry owns
// decoding and validation.
type TemplateSource interface {
	// Fetch returns the raw graph document for a language.
	// It must fail for languages with no backing definition.
	Fetch(lang domain.Language) ([]byte, error)

	// Languages lists the languages this source has definitions for.
	// Used by startup preloading and the validate tooling.
	Languages() ([]domain.Language, error)
}
