// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.yaml.in/yaml/v3"
)

// HierarchyLevel is one tier of the topic taxonomy.
type HierarchyLevel struct {
	Name     string   `json:"level" yaml:"level"`
	Concepts []string `json:"concepts" yaml:"concepts"`
}

// Hierarchy is the static topic taxonomy ordered from foundational to
// applied. In JSON and YAML it is a mapping from level label to concepts,
// with keys in level order.
type Hierarchy struct {
	Levels []HierarchyLevel
}

// Level returns the concepts of the named level.
func (h Hierarchy) Level(name string) ([]string, bool) {
	for _, l := range h.Levels {
		if l.Name == name {
			return l.Concepts, true
		}
	}
	return nil, false
}

// LevelOf returns the name of the first level listing concept.
func (h Hierarchy) LevelOf(concept string) (string, bool) {
	for _, l := range h.Levels {
		for _, c := range l.Concepts {
			if c == concept {
				return l.Name, true
			}
		}
	}
	return "", false
}

// MarshalJSON encodes the hierarchy as an ordered object.
func (h Hierarchy) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, []string](len(h.Levels))
	for _, l := range h.Levels {
		om.Set(l.Name, l.Concepts)
	}
	return json.Marshal(om)
}

// UnmarshalJSON decodes an ordered level → concepts object.
func (h *Hierarchy) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, []string]()
	if err := json.Unmarshal(data, om); err != nil {
		return fmt.Errorf("parsing hierarchy: %w", err)
	}
	h.Levels = make([]HierarchyLevel, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		h.Levels = append(h.Levels, HierarchyLevel{Name: pair.Key, Concepts: pair.Value})
	}
	return nil
}

// MarshalYAML encodes the hierarchy as a mapping in level order.
func (h Hierarchy) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, l := range h.Levels {
		var value yaml.Node
		if err := value.Encode(l.Concepts); err != nil {
			return nil, fmt.Errorf("encoding level %q: %w", l.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l.Name},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a level → concepts mapping, keeping key order.
func (h *Hierarchy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: hierarchy must be a mapping of level to concepts", node.Line)
	}
	h.Levels = make([]HierarchyLevel, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var concepts []string
		if err := node.Content[i+1].Decode(&concepts); err != nil {
			return fmt.Errorf("level %q: %w", node.Content[i].Value, err)
		}
		h.Levels = append(h.Levels, HierarchyLevel{Name: node.Content[i].Value, Concepts: concepts})
	}
	return nil
}
