package registry

import (
	"gopkg.in/yaml.v3"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// graphDoc is the YAML shape of one language's template set.
type graphDoc struct {
	Entry     string                 `yaml:"entry"`
	Templates map[string]templateDoc `yaml:"templates"`
}

type templateDoc struct {
	Message      string                    `yaml:"message"`
	Validator    string                    `yaml:"validator"`
	ErrorOptions []string                  `yaml:"error_options"`
	ErrorFormat  string                    `yaml:"error_format"`
	Actions      map[string]string         `yaml:"actions"`
	ActionParams map[string]map[string]any `yaml:"action_params"`
	Routing      map[string]string         `yaml:"routing"`
	Previous     string                    `yaml:"previous"`
	Next         string                    `yaml:"next"`
}

// Decode parses a raw graph document into a domain Graph.
// Structural problems (bad YAML, no templates) are ConfigErrors;
// semantic validation happens in ValidateGraph.
func Decode(lang domain.Language, raw []byte) (*domain.Graph, error) {
	var doc graphDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &domain.ConfigError{Language: lang, Reason: "invalid document: " + err.Error()}
	}

	if len(doc.Templates) == 0 {
		return nil, &domain.ConfigError{Language: lang, Reason: "no templates defined"}
	}
	if doc.Entry == "" {
		return nil, &domain.ConfigError{Language: lang, Reason: "missing entry template name"}
	}

	graph := &domain.Graph{
		Language:  lang,
		Entry:     doc.Entry,
		Templates: make(map[string]*domain.Template, len(doc.Templates)),
	}

	for name, td := range doc.Templates {
		kind := domain.ValidatorKind(td.Validator)
		if td.Validator == "" {
			kind = domain.ValidatorOption
		}
		graph.Templates[name] = &domain.Template{
			Name:         name,
			Message:      td.Message,
			ErrorOptions: td.ErrorOptions,
			ErrorFormat:  td.ErrorFormat,
			Actions:      td.Actions,
			ActionParams: td.ActionParams,
			Routing:      td.Routing,
			Previous:     td.Previous,
			Next:         td.Next,
			Validator:    kind,
		}
	}

	return graph, nil
}
