package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a loaded yaml-runner configuration. It is read-only after
// construction; Commands derives a fresh Spec collection on every call.
type Config struct {
	// doc is the root mapping of a YAML-backed configuration. Walking the
	// node tree (rather than a decoded map) keeps the document's key order.
	doc *yaml.Node

	// tree is set instead of doc when the configuration was supplied as an
	// in-memory map.
	tree map[string]any
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a YAML configuration from a reader. An empty document yields
// an empty configuration, which is valid and defines no commands.
func Parse(r io.Reader) (*Config, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, err
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolveAlias(root.Content[0])
	}
	if root.Kind == yaml.ScalarNode && root.Tag == nullTag {
		return &Config{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("configuration root must be a mapping")
	}
	return &Config{doc: root}, nil
}

// FromMap wraps an already-parsed configuration structure. The map is not
// copied; it must not be mutated while the Config is in use.
func FromMap(m map[string]any) *Config {
	if m == nil {
		return &Config{}
	}
	return &Config{tree: m}
}

// IsEmpty reports whether the configuration defines nothing at all.
func (c *Config) IsEmpty() bool {
	if c == nil {
		return true
	}
	if c.doc != nil {
		return len(c.doc.Content) == 0
	}
	return len(c.tree) == 0
}

// Raw returns the configuration as a plain map. The result is a copy; callers
// may mutate it freely.
func (c *Config) Raw() (map[string]any, error) {
	if c == nil || c.IsEmpty() {
		return map[string]any{}, nil
	}
	if c.doc != nil {
		var m map[string]any
		if err := c.doc.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
		return m, nil
	}
	return copyMap(c.tree), nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
