/*
Package menuflow is a template-driven conversational state machine for
chat-style messaging channels (WhatsApp-like webhooks).

Each inbound utterance is resolved against a finite set of named
templates (conversation nodes) in a per-language graph. The engine
validates the reply, decides whether it is a routing event (pick the
next template) or an action event (run a side-effecting handler), and
emits an ordered outbound message sequence plus the next position to
persist. Validation failures re-prompt, action failures apologize, and
the conversation is never left in an unrecoverable state.

# Concept

The core is a library invoked by a request handler, built hexagonally:
the engine consumes a TemplateSource (graph configuration) and an action
handler table, while the host owns persistence (PositionStore), per-user
turn serialization (pkg/session), and transport delivery (pkg/envelope,
pkg/adapters/http).

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/fynbosch/menuflow"
		"github.com/fynbosch/menuflow/pkg/adapters/file"
		"github.com/fynbosch/menuflow/pkg/domain"
	)

	func main() {
		eng := menuflow.New(file.NewSource("./templates"))
		eng.RegisterActionFunc("generate_expense_report", generateReport)

		// Fail fast on broken template configuration.
		if err := eng.Preload(); err != nil {
			log.Fatal(err)
		}

		// One turn: load position, step, persist position, send messages.
		pos := domain.NewPosition(domain.English)
		turn, err := eng.Turn(context.Background(), "27820001111", *pos, "")
		if err != nil {
			log.Fatal(err)
		}
		for _, msg := range turn.Messages {
			log.Println(msg.Kind, msg.Text)
		}
	}
*/
package menuflow
