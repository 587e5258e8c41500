package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders outbound message text
// using glamour, so prompts read nicely in the chat simulator.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
