package domain

// PartKind tags the variant of a MessagePart.
type PartKind string

const (
	PartBody     PartKind = "body"
	PartMedia    PartKind = "media"
	PartRedirect PartKind = "redirect"
)

// MessagePart is one element of an outbound message sequence.
// Exactly one payload field is meaningful per kind; order within a turn
// is preserved end-to-end into the transport envelope.
type MessagePart struct {
	Kind PartKind `json:"kind"`

	// Text is the message body (PartBody).
	Text string `json:"text,omitempty"`

	// URL references an attachment (PartMedia).
	URL string `json:"url,omitempty"`

	// Target is a transport-level redirect destination (PartRedirect).
	Target string `json:"target,omitempty"`
}

// Body builds a text part.
func Body(text string) MessagePart {
	return MessagePart{Kind: PartBody, Text: text}
}

// Media builds a media attachment part.
func Media(url string) MessagePart {
	return MessagePart{Kind: PartMedia, URL: url}
}

// Redirect builds a redirect part.
func Redirect(target string) MessagePart {
	return MessagePart{Kind: PartRedirect, Target: target}
}

// ActionResult is the outcome of one action handler invocation.
// It is consumed immediately by the state machine and never persisted.
type ActionResult struct {
	// Err marks a failed action. The conversation stays on the current
	// template so the user can retry.
	Err bool

	// Messages are emitted in order as the turn's output.
	Messages []MessagePart

	// Stay keeps the conversation on the current template even on
	// success (e.g. a menu item that produces a report and returns).
	Stay bool

	// Next optionally names the template to move to. It is validated
	// against the active graph before being adopted.
	Next string
}

// Turn is the complete output of one state machine step: the ordered
// outbound messages and the position the caller must persist.
type Turn struct {
	Messages []MessagePart
	Position Position
}
