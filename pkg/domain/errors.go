package domain

import (
	"errors"
	"fmt"
)

// ErrPositionNotFound is returned by position stores when a user has no
// persisted conversation state yet.
var ErrPositionNotFound = errors.New("conversation position not found")

// ErrUnknownLanguage is returned when a language code or name is not in
// the closed language set.
var ErrUnknownLanguage = errors.New("unknown language")

// ConfigError describes a defect in the template configuration for a
// language. It is fatal at load time: a graph either loads completely or
// the load fails with one or more ConfigErrors.
type ConfigError struct {
	Language Language
	Template string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("template config (%s): %s", e.Language, e.Reason)
	}
	return fmt.Sprintf("template config (%s/%s): %s", e.Language, e.Template, e.Reason)
}

// IsConfigError reports whether err carries at least one ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
