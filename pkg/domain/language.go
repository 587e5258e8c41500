package domain

import (
	"fmt"
	"strings"
)

// Language is a supported conversation language code.
// The set is closed: the registry and the language validator share it,
// and graph loading checks configured languages against it.
type Language string

const (
	English   Language = "en"
	Zulu      Language = "zu"
	Afrikaans Language = "af"
)

// DefaultLanguage is the language used before the user has picked one.
const DefaultLanguage = English

var languageNames = map[Language]string{
	English:   "English",
	Zulu:      "Zulu",
	Afrikaans: "Afrikaans",
}

// Languages returns all supported languages in a stable order.
func Languages() []Language {
	return []Language{English, Zulu, Afrikaans}
}

// LanguageNames returns the display names of all supported languages,
// in the same order as Languages. Used to enumerate valid choices in
// selector prompts and error messages.
func LanguageNames() []string {
	names := make([]string, 0, len(languageNames))
	for _, l := range Languages() {
		names = append(names, languageNames[l])
	}
	return names
}

// Name returns the human-readable display name (e.g. "Zulu").
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

// Valid reports whether l is a member of the closed language set.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage resolves a code ("zu") or display name ("Zulu", case
// insensitive) to a Language. Returns ErrUnknownLanguage otherwise.
func ParseLanguage(s string) (Language, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	for lang, name := range languageNames {
		if clean == string(lang) || clean == strings.ToLower(name) {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}
