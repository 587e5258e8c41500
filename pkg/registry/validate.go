package registry

import (
	"errors"
	"fmt"

	"github.com/fynbosch/menuflow/pkg/domain"
)

var validatorKinds = map[domain.ValidatorKind]bool{
	domain.ValidatorOption:   true,
	domain.ValidatorLanguage: true,
}

// ValidateGraph checks the semantic invariants of a decoded graph:
//
//   - Closure: every routing target and every next/previous hint resolves
//     to an existing template within the same graph.
//   - Disjointness: no option token appears in both actions and routing.
//   - The entry template exists.
//   - Every validator kind is a member of the closed kind set.
//
// All violations are reported together, joined into one error.
func ValidateGraph(g *domain.Graph) error {
	var errs []error

	fail := func(template, format string, args ...any) {
		errs = append(errs, &domain.ConfigError{
			Language: g.Language,
			Template: template,
			Reason:   fmt.Sprintf(format, args...),
		})
	}

	if _, ok := g.Templates[g.Entry]; !ok {
		fail("", "entry template %q does not exist", g.Entry)
	}

	for name, tpl := range g.Templates {
		if !validatorKinds[tpl.Validator] {
			fail(name, "unknown validator kind %q", tpl.Validator)
		}

		for token, target := range tpl.Routing {
			if _, ok := g.Templates[target]; !ok {
				fail(name, "routing %q points to missing template %q", token, target)
			}
			if _, dup := tpl.Actions[token]; dup {
				fail(name, "option %q is both an action and a route", token)
			}
		}

		if tpl.Next != "" {
			if _, ok := g.Templates[tpl.Next]; !ok {
				fail(name, "next points to missing template %q", tpl.Next)
			}
		}
		if tpl.Previous != "" {
			if _, ok := g.Templates[tpl.Previous]; !ok {
				fail(name, "previous points to missing template %q", tpl.Previous)
			}
		}

		for action := range tpl.ActionParams {
			if !hasActionName(tpl, action) {
				fail(name, "action_params for %q, which no option maps to", action)
			}
		}
	}

	return errors.Join(errs...)
}

func hasActionName(tpl *domain.Template, action string) bool {
	for _, name := range tpl.Actions {
		if name == action {
			return true
		}
	}
	return false
}
