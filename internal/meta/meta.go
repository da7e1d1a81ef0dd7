// Package meta provides the ordered, free-form key/value mapping used for
// category configs and document metadata. Keys keep their source order all
// the way through to the serialized site index.
package meta

import (
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered mapping of string keys to variant values.
// Values are scalars (string, int, uint64, float64, bool, nil), []any, or a
// nested *Map, so every Map marshals to JSON.
type Map struct {
	om *orderedmap.OrderedMap[string, any]
}

// New returns an empty Map.
func New() *Map {
	return &Map{om: orderedmap.New[string, any]()}
}

// FromNode decodes a YAML mapping node, keeping key order. A document node is
// unwrapped; an empty document yields an empty Map. Nested mappings become
// nested Maps with their scalar keys taken as written, and non-finite floats
// keep their source text.
func FromNode(node *yaml.Node) (*Map, error) {
	if node == nil || node.Kind == 0 {
		return New(), nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return New(), nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping, got %s", kindName(node.Kind))
	}
	return fromMapping(node)
}

func fromMapping(node *yaml.Node) (*Map, error) {
	m := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind == yaml.AliasNode && key.Alias != nil {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: non-scalar key", key.Line)
		}
		v, err := fromValue(val)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}
	return m, nil
}

func fromValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", node.Line)
		}
		return fromValue(node.Alias)
	case yaml.MappingNode:
		return fromMapping(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := fromValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return node.Value, nil
		}
	case string, int, int64, uint64, bool, nil:
	default:
		// Timestamps, binary and other tagged scalars keep their source text.
		return node.Value, nil
	}
	return v, nil
}

// Set stores v under key. An existing key keeps its position.
func (m *Map) Set(key string, v any) {
	m.om.Set(key, v)
}

// Get returns the value under key.
func (m *Map) Get(key string) (any, bool) {
	return m.om.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.om.Get(key)
	return ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return m.om.Len()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Text returns the scalar under key rendered as a string. Absent and null
// values report ok=false; lists and mappings are an error.
func (m *Map) Text(key string) (string, bool, error) {
	v, ok := m.om.Get(key)
	if !ok || v == nil {
		return "", false, nil
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), true, nil
	default:
		return "", false, fmt.Errorf("%q must be a scalar, got %T", key, v)
	}
}

// Bool returns the boolean under key. Absent keys report ok=false; a value of
// any other type is an error.
func (m *Map) Bool(key string) (bool, bool, error) {
	v, ok := m.om.Get(key)
	if !ok {
		return false, false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false, fmt.Errorf("%q must be a boolean, got %T", key, v)
	}
	return b, true, nil
}

// Merge overlays every key of other onto m in other's order.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for pair := other.om.Oldest(); pair != nil; pair = pair.Next() {
		m.om.Set(pair.Key, pair.Value)
	}
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	c := New()
	c.Merge(m)
	return c
}

// MarshalJSON writes the keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.om.MarshalJSON()
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
