package registry

import (
	"strings"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// Validate applies a template's input validator to a raw user reply.
// It returns the normalized token and whether the input was accepted.
//
// Validators are pure functions of (raw input, template definition):
// no I/O, no side effects. A rejected input is a user-facing outcome
// (re-prompt with the template's enumerated options), never an error.
func Validate(raw string, tpl *domain.Template) (string, bool) {
	switch tpl.Validator {
	case domain.ValidatorLanguage:
		return validateLanguage(raw)
	default:
		return validateOption(raw, tpl)
	}
}

// validateLanguage accepts case-insensitive matches against the closed
// language set and canonicalizes to the display name (e.g. "zulu" → "Zulu").
func validateLanguage(raw string) (string, bool) {
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		return "", false
	}
	return lang.Name(), true
}

// validateOption trims and lower-cases the reply and accepts it iff the
// normalized token is an actions or routing key of the current template.
func validateOption(raw string, tpl *domain.Template) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return "", false
	}
	if _, ok := tpl.Actions[token]; ok {
		return token, true
	}
	if _, ok := tpl.Routing[token]; ok {
		return token, true
	}
	return "", false
}
