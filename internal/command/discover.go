package command

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// Commands walks the configuration tree depth-first, left to right, and
// returns every command definition in visitation order. A mapping with a
// non-empty `command` entry is a command leaf and is not recursed into;
// command names therefore never nest. Duplicate names keep their first
// occurrence in traversal order.
//
// YAML-backed configurations keep the document's key order; map-backed
// configurations have no native order, so keys are visited sorted.
func (c *Config) Commands() ([]Spec, error) {
	if c == nil {
		return nil, nil
	}
	if c.doc != nil {
		specs, err := walkNode(c.doc, map[*yaml.Node]bool{})
		if err != nil {
			return nil, err
		}
		return dedupe(specs), nil
	}
	if c.tree != nil {
		specs, err := walkMap(c.tree, map[uintptr]bool{})
		if err != nil {
			return nil, err
		}
		return dedupe(specs), nil
	}
	return nil, nil
}

func walkNode(n *yaml.Node, seen map[*yaml.Node]bool) ([]Spec, error) {
	var specs []Spec
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		value := resolveAlias(n.Content[i+1])
		if value.Kind != yaml.MappingNode {
			continue
		}
		// YAML anchors can alias a mapping into itself; a revisit means the
		// tree is actually cyclic and the walk would never terminate.
		if seen[value] {
			return nil, fmt.Errorf("configuration contains a cycle at %q", key)
		}
		seen[value] = true

		if cmd := mappingEntry(value, "command"); isTruthyNode(cmd) {
			spec, err := decodeSpec(key, value)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
			continue
		}
		nested, err := walkNode(value, seen)
		if err != nil {
			return nil, err
		}
		specs = append(specs, nested...)
	}
	return specs, nil
}

func walkMap(m map[string]any, seen map[uintptr]bool) ([]Spec, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var specs []Spec
	for _, key := range keys {
		child, ok := m[key].(map[string]any)
		if !ok {
			continue
		}
		ptr := reflect.ValueOf(child).Pointer()
		if seen[ptr] {
			return nil, fmt.Errorf("configuration contains a cycle at %q", key)
		}
		seen[ptr] = true

		if isTruthyValue(child["command"]) {
			spec, err := decodeSpecMap(key, child)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
			continue
		}
		nested, err := walkMap(child, seen)
		if err != nil {
			return nil, err
		}
		specs = append(specs, nested...)
	}
	return specs, nil
}

// dedupe keeps the first Spec per name, preserving traversal order.
func dedupe(specs []Spec) []Spec {
	byName := make(map[string]bool, len(specs))
	out := specs[:0]
	for _, spec := range specs {
		if byName[spec.Name] {
			continue
		}
		byName[spec.Name] = true
		out = append(out, spec)
	}
	return out
}

func decodeSpec(name string, n *yaml.Node) (Spec, error) {
	var raw struct {
		Command     StringOrList   `yaml:"command"`
		Description string         `yaml:"description"`
		Params      map[string]any `yaml:"params"`
	}
	if err := n.Decode(&raw); err != nil {
		return Spec{}, fmt.Errorf("command %q: %w", name, err)
	}
	return Spec{Name: name, Command: raw.Command, Description: raw.Description, Params: raw.Params}, nil
}

func decodeSpecMap(name string, m map[string]any) (Spec, error) {
	var raw struct {
		Command     StringOrList   `mapstructure:"command"`
		Description string         `mapstructure:"description"`
		Params      map[string]any `mapstructure:"params"`
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &raw,
		// Weak typing accepts a single string where the list is expected,
		// matching the string-or-list rule of the YAML form.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Spec{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Spec{}, fmt.Errorf("command %q: %w", name, err)
	}
	return Spec{Name: name, Command: raw.Command, Description: raw.Description, Params: raw.Params}, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// mappingEntry returns the value node for key, or nil when absent.
func mappingEntry(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolveAlias(n.Content[i+1])
		}
	}
	return nil
}

// isTruthyNode mirrors the truthiness rule for the `command` entry: absent,
// null, empty, zero, and false values do not mark a command leaf.
func isTruthyNode(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case nullTag:
			return false
		case "!!bool":
			return n.Value == "true" || n.Value == "True"
		case "!!int", "!!float":
			return n.Value != "0" && n.Value != "0.0"
		}
		return n.Value != ""
	case yaml.SequenceNode, yaml.MappingNode:
		return len(n.Content) > 0
	}
	return false
}

func isTruthyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	return true
}
