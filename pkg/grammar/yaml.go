package grammar

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlGrammar represents the YAML structure of a grammar file:
//
//	entities:
//	  - id: Q90
//	    names: [Paris, Paname]
type yamlGrammar struct {
	Entities []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	ID    string   `yaml:"id"`
	Names []string `yaml:"names"`
}

// ParseYAML reads a YAML grammar.
func ParseYAML(src []byte) ([]Entry, error) {
	var doc yamlGrammar
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Entities))
	for i, ye := range doc.Entities {
		if ye.ID == "" {
			return nil, &SyntaxError{Format: FormatYAML, Reason: fmt.Sprintf("entity %d has no id", i+1)}
		}
		entries = append(entries, Entry{ID: ye.ID, Names: ye.Names})
	}
	return entries, nil
}

// MarshalYAML renders entries as a YAML grammar.
func MarshalYAML(entries []Entry) ([]byte, error) {
	doc := yamlGrammar{Entities: make([]yamlEntity, 0, len(entries))}
	for _, e := range entries {
		doc.Entities = append(doc.Entities, yamlEntity{ID: e.ID, Names: e.Names})
	}
	return yaml.Marshal(doc)
}
