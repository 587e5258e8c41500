// Package file provides a TemplateSource reading per-language YAML
// documents from a directory (en.yaml, zu.yaml, af.yaml).
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// Source implements ports.TemplateSource over a directory.
// Decoding and validation stay with the registry; this adapter only
// locates and reads the raw documents.
type Source struct {
	dir string
}

// NewSource creates a Source for the given templates directory.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Fetch reads the raw graph document for a language, trying
// <lang>.yaml then <lang>.yml.
func (s *Source) Fetch(lang domain.Language) ([]byte, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, string(lang)+ext)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read templates %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("no template document for language %s in %s", lang, s.dir)
}

// Languages lists the languages with a backing document in the
// directory. File names that are not language codes are ignored.
func (s *Source) Languages() ([]domain.Language, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir %s: %w", s.dir, err)
	}

	var langs []domain.Language
	seen := make(map[domain.Language]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		lang := domain.Language(strings.TrimSuffix(name, ext))
		if !lang.Valid() || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs, nil
}
