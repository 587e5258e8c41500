package memory

import (
	"fmt"
	"sort"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// Source implements ports.TemplateSource using an in-memory map of raw
// graph documents, keyed by language.
type Source struct {
	docs map[domain.Language][]byte
}

// NewSource creates a Source from raw YAML documents per language.
func NewSource(docs map[domain.Language]string) *Source {
	raw := make(map[domain.Language][]byte, len(docs))
	for lang, doc := range docs {
		raw[lang] = []byte(doc)
	}
	return &Source{docs: raw}
}

// Set replaces the raw document for a language. Combined with a registry
// reload this simulates editing templates at runtime.
func (s *Source) Set(lang domain.Language, doc string) {
	s.docs[lang] = []byte(doc)
}

// Fetch returns the raw graph document for a language.
func (s *Source) Fetch(lang domain.Language) ([]byte, error) {
	doc, ok := s.docs[lang]
	if !ok {
		return nil, fmt.Errorf("no templates for language: %s", lang)
	}
	return doc, nil
}

// Languages returns the configured languages in deterministic order.
func (s *Source) Languages() ([]domain.Language, error) {
	langs := make([]domain.Language, 0, len(s.docs))
	for lang := range s.docs {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs, nil
}
