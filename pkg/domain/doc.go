/*
Package domain contains the core domain model for the Menuflow engine.

It defines the entities of the conversational state machine: per-language
Templates and Graphs, the persisted conversation Position, the outbound
MessagePart sequence, and the ActionResult contract. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Template: A named node in a language's conversation graph, bundling
    prompt text, validation rule, and outgoing edges.
  - Graph: The complete, validated template set for one language.
  - Position: The per-user state persisted between turns (current and
    previous template, language, started flag).
  - MessagePart / Turn: The ordered outbound message sequence produced
    by one turn, plus the position to persist.
  - ActionResult: The outcome of a side-effecting action handler.
*/
package domain
