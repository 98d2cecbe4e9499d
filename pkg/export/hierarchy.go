package export

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// Document is the hierarchical export shape: registry statistics, the
// dimension entities with their derived counts, and every machine with
// its nested history and resources. Machines and dimensions are sorted
// by name so repeated exports of the same registry are byte-identical.
type Document struct {
	Stats         registry.Stats       `json:"stats" yaml:"stats"`
	Manufacturers []registry.Dimension `json:"manufacturers,omitempty" yaml:"manufacturers,omitempty"`
	Series        []registry.Dimension `json:"series,omitempty" yaml:"series,omitempty"`
	Categories    []registry.Dimension `json:"categories,omitempty" yaml:"categories,omitempty"`
	Languages     []registry.Dimension `json:"languages,omitempty" yaml:"languages,omitempty"`
	Machines      []*registry.Machine  `json:"machines" yaml:"machines"`
}

// BuildDocument assembles the hierarchical view of a registry.
func BuildDocument(reg *registry.Registry) (*Document, error) {
	if err := checkRegistry(reg); err != nil {
		return nil, err
	}

	return &Document{
		Stats:         reg.Stats(),
		Manufacturers: reg.Manufacturers(),
		Series:        reg.Series(),
		Categories:    reg.Categories(),
		Languages:     reg.Languages(),
		Machines:      reg.Machines().List(),
	}, nil
}

// WriteJSON writes the hierarchical document as indented JSON.
func WriteJSON(w io.Writer, reg *registry.Registry) error {
	doc, err := BuildDocument(reg)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return &errors.ExportError{Target: "json", Encoding: "json", Err: err}
	}
	return nil
}

// WriteYAML writes the hierarchical document as YAML.
func WriteYAML(w io.Writer, reg *registry.Registry) error {
	doc, err := BuildDocument(reg)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return &errors.ExportError{Target: "yaml", Encoding: "yaml", Err: err}
	}
	return nil
}
