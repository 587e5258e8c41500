package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fynbosch/menuflow/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	g := &domain.Graph{
		Language: domain.English,
		Entry:    "language_selector",
		Templates: map[string]*domain.Template{
			"language_selector": {
				Name: "language_selector",
				Next: "main_menu",
			},
			"main_menu": {
				Name:    "main_menu",
				Actions: map[string]string{"1": "generate_report"},
				Routing: map[string]string{"2": "invoices_menu"},
			},
			"invoices_menu": {
				Name:    "invoices_menu",
				Routing: map[string]string{"back": "main_menu"},
			},
		},
	}

	out := GenerateMermaid(g)

	assert.Contains(t, out, "graph TD")
	// Entry rendered as a circle.
	assert.Contains(t, out, `language_selector(("language_selector"))`)
	// Routing edge labelled with the option token.
	assert.Contains(t, out, `main_menu -- "2" --> invoices_menu`)
	// Action rendered as a subroutine leaf.
	assert.Contains(t, out, `main_menu_generate_report[["generate_report"]]`)
	assert.Contains(t, out, `main_menu -- "1" --> main_menu_generate_report`)
	// Next hint as a dotted arrow.
	assert.Contains(t, out, "language_selector -.-> main_menu")
}

func TestGenerateMermaid_Deterministic(t *testing.T) {
	g := &domain.Graph{
		Language: domain.English,
		Entry:    "a",
		Templates: map[string]*domain.Template{
			"a": {Name: "a", Routing: map[string]string{"1": "b", "2": "c"}},
			"b": {Name: "b"},
			"c": {Name: "c"},
		},
	}

	first := GenerateMermaid(g)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GenerateMermaid(g))
	}
}
