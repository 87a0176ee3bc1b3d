// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// ConceptCount is one ranked entry of the concept index. It is the only
// in-memory shape for a ranked concept; on the wire it is the pair
// [name, frequency].
type ConceptCount struct {
	Name      string
	Frequency int
}

// MarshalJSON encodes the entry as a two-element array.
func (c ConceptCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Name, c.Frequency})
}

// UnmarshalJSON decodes a [name, frequency] pair. Any other shape is an error.
func (c *ConceptCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("concept count: expected [name, frequency]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("concept count: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Name); err != nil {
		return fmt.Errorf("concept count name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Frequency); err != nil {
		return fmt.Errorf("concept count frequency: %w", err)
	}
	return nil
}

// MarshalYAML encodes the entry as a two-element flow sequence.
func (c ConceptCount) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", c.Frequency)},
		},
	}, nil
}

// UnmarshalYAML decodes a [name, frequency] sequence.
func (c *ConceptCount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("concept count: expected [name, frequency] at line %d", node.Line)
	}
	if err := node.Content[0].Decode(&c.Name); err != nil {
		return fmt.Errorf("concept count name: %w", err)
	}
	if err := node.Content[1].Decode(&c.Frequency); err != nil {
		return fmt.Errorf("concept count frequency: %w", err)
	}
	return nil
}

// ConceptIndex is the aggregate view across all tagged records of one run.
type ConceptIndex struct {
	// TotalConcepts is the number of distinct concepts observed.
	TotalConcepts int `json:"total_concepts" yaml:"total_concepts"`

	// MostCommonConcepts is ranked by descending frequency; ties keep
	// first-observed order.
	MostCommonConcepts []ConceptCount `json:"most_common_concepts" yaml:"most_common_concepts"`

	// ConceptToExamples lists record ids per concept in input order.
	ConceptToExamples map[string][]string `json:"concept_to_examples" yaml:"concept_to_examples"`

	ComplexityDistribution map[string]int `json:"complexity_distribution" yaml:"complexity_distribution"`
	AudienceDistribution   map[string]int `json:"audience_distribution" yaml:"audience_distribution"`
}

// Examples returns up to limit example record ids for concept. A limit of
// zero or less returns all of them.
func (ci ConceptIndex) Examples(concept string, limit int) []string {
	ids := ci.ConceptToExamples[concept]
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}

// Frequency returns the number of records tagged with concept.
func (ci ConceptIndex) Frequency(concept string) int {
	return len(ci.ConceptToExamples[concept])
}

// Top returns the first k ranked concepts.
func (ci ConceptIndex) Top(k int) []ConceptCount {
	if k < 0 || k > len(ci.MostCommonConcepts) {
		k = len(ci.MostCommonConcepts)
	}
	return ci.MostCommonConcepts[:k]
}
