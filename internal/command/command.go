// Package command loads yaml-runner configurations and discovers the command
// definitions nested inside them. A command definition is any mapping in the
// configuration tree that carries a non-empty `command` entry; the key it
// sits under becomes the command's name.
package command

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is a single discovered command definition.
type Spec struct {
	// Name is the configuration key the definition was found under.
	Name string

	// Command holds one or more shell command lines, in declaration order.
	Command StringOrList

	// Description annotates the command in generated help output.
	Description string

	// Params is parsed but currently unused. Reserved for parameter
	// substitution beyond the $@ passthrough placeholder.
	Params map[string]any
}

// StringOrList decodes a YAML value that may be a single scalar or a
// sequence of scalars into a list of command lines.
type StringOrList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.AliasNode:
		return s.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		if value.Tag == nullTag {
			*s = nil
			return nil
		}
		*s = StringOrList{value.Value}
	case yaml.SequenceNode:
		lines := make(StringOrList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("command list entries must be strings")
			}
			lines = append(lines, item.Value)
		}
		*s = lines
	default:
		return fmt.Errorf("command must be a string or a list of strings")
	}
	return nil
}
