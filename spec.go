package apisurface

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Names is a list of symbol names. In YAML it may be written as a single
// scalar, which is wrapped into a one-element list.
type Names []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*n = Names{}
			return nil
		}
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*n = Names{name}
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*n = names
	default:
		return fmt.Errorf("line %d: names must be a string or a list of strings", node.Line)
	}

	return nil
}

// Spec describes what a module is expected to export.
type Spec struct {
	// Export lists the names imported by default.
	Export Names `yaml:"export"`

	// ExportOK lists the names importable only on request.
	ExportOK Names `yaml:"export_ok"`
}

func (s Spec) normalize() Spec {
	if s.Export == nil {
		s.Export = Names{}
	}
	if s.ExportOK == nil {
		s.ExportOK = Names{}
	}

	return s
}

// ParseSpec decodes a YAML spec such as:
//
//	export: [foo, bar]
//	export_ok: baz
//
// Omitted keys are empty. Unknown keys are rejected.
func ParseSpec(data []byte) (Spec, error) {
	var s Spec

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Spec{}, fmt.Errorf("parsing spec: %w", err)
	}

	return s.normalize(), nil
}
