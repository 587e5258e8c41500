// Package envelope serializes a turn's message parts into the outbound
// transport payload. It is a pure encoding step with no state: the
// producer (action handlers, templates) owns content validity.
package envelope

import "github.com/fynbosch/menuflow/pkg/domain"

// Item is one element of the outbound payload, tagged by type.
type Item struct {
	Type string `json:"type"`

	// Text is set for body items.
	Text string `json:"text,omitempty"`

	// URL is set for media items.
	URL string `json:"url,omitempty"`

	// Target is set for redirect items.
	Target string `json:"target,omitempty"`
}

// Envelope is the fully serialized outbound message, ready for delivery
// by the transport adapter.
type Envelope struct {
	To       string `json:"to"`
	Messages []Item `json:"messages"`
}

// Build converts an ordered message part sequence into an Envelope.
// Part order is preserved.
func Build(to string, parts []domain.MessagePart) Envelope {
	items := make([]Item, 0, len(parts))
	for _, part := range parts {
		switch part.Kind {
		case domain.PartBody:
			items = append(items, Item{Type: "text", Text: part.Text})
		case domain.PartMedia:
			items = append(items, Item{Type: "media", URL: part.URL})
		case domain.PartRedirect:
			items = append(items, Item{Type: "redirect", Target: part.Target})
		}
	}
	return Envelope{To: to, Messages: items}
}
