// Package graph renders a language's template graph for inspection.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from a template graph.
// It applies semantic styling:
//   - Entry template: ((Circle))
//   - Action bindings: [[Subroutine]] leaf nodes
//   - Other templates: [Rectangle]
//
// Routing edges are labelled with their option token; next-pointer
// hints are drawn as dotted arrows.
func GenerateMermaid(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	names := g.Names()
	sort.Strings(names)

	for _, name := range names {
		tpl := g.Templates[name]
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		if name == g.Entry {
			opener, closer = "((", "))" // Circle
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))

		for _, token := range sortedKeys(tpl.Routing) {
			target := tpl.Routing[token]
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				safeID, escapeMermaidLabel(token), sanitizeMermaidID(target)))
		}

		for _, token := range sortedKeys(tpl.Actions) {
			action := tpl.Actions[token]
			actionID := safeID + "_" + sanitizeMermaidID(action)
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", actionID, action))
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				safeID, escapeMermaidLabel(token), actionID))
		}

		if tpl.Next != "" {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeID, sanitizeMermaidID(tpl.Next)))
		}
	}

	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
