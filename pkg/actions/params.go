package actions

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// DecodeParams decodes a call's configured params into a typed struct.
// Fields are matched by `mapstructure` tags.
func DecodeParams(params map[string]any, out any) error {
	if err := mapstructure.Decode(params, out); err != nil {
		return fmt.Errorf("decode action params: %w", err)
	}
	return nil
}

// staticReplyParams configures the built-in static_reply handler.
type staticReplyParams struct {
	Body     string `mapstructure:"body"`
	Media    string `mapstructure:"media"`
	Redirect string `mapstructure:"redirect"`
	Stay     bool   `mapstructure:"stay"`
	Next     string `mapstructure:"next"`
}

// StaticReply is a built-in handler that emits a fixed message sequence
// taken from the template's action params. Useful for informational menu
// items that need no downstream collaborator.
func StaticReply() Handler {
	return Func(func(_ context.Context, call Call) (domain.ActionResult, error) {
		var p staticReplyParams
		if err := DecodeParams(call.Params, &p); err != nil {
			return domain.ActionResult{}, err
		}

		var parts []domain.MessagePart
		if p.Body != "" {
			parts = append(parts, domain.Body(p.Body))
		}
		if p.Media != "" {
			parts = append(parts, domain.Media(p.Media))
		}
		if p.Redirect != "" {
			parts = append(parts, domain.Redirect(p.Redirect))
		}
		if len(parts) == 0 {
			return domain.ActionResult{}, fmt.Errorf("static_reply: no content configured")
		}

		return domain.ActionResult{Messages: parts, Stay: p.Stay, Next: p.Next}, nil
	})
}
