// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.yaml.in/yaml/v3"
)

// Phase is one step of the five-phase instructional schedule.
type Phase struct {
	Phase      string   `json:"phase" yaml:"phase"`
	Activities []string `json:"activities" yaml:"activities"`
	Duration   string   `json:"duration" yaml:"duration"`
}

// Assessment holds formative and summative guidance.
type Assessment struct {
	Formative string `json:"formative" yaml:"formative"`
	Summative string `json:"summative" yaml:"summative"`
}

// Connections relates a concept to what comes before and after it.
type Connections struct {
	PreviousConcepts      string `json:"previous_concepts" yaml:"previous_concepts"`
	SubsequentConcepts    string `json:"subsequent_concepts" yaml:"subsequent_concepts"`
	RealWorldApplications string `json:"real_world_applications" yaml:"real_world_applications"`
}

// LessonTemplate is a synthesized teaching artifact for one concept.
type LessonTemplate struct {
	Concept             string      `json:"concept" yaml:"concept"`
	DifficultyLevel     string      `json:"difficulty_level" yaml:"difficulty_level"`
	LearningObjectives  []string    `json:"learning_objectives" yaml:"learning_objectives"`
	ScientificPractices []string    `json:"scientific_practices" yaml:"scientific_practices"`
	TeachingSequence    []Phase     `json:"teaching_sequence" yaml:"teaching_sequence"`
	Resources           []string    `json:"resources" yaml:"resources"`
	Assessment          Assessment  `json:"assessment" yaml:"assessment"`
	Connections         Connections `json:"connections" yaml:"connections"`
}

// LessonTemplates is the rank-ordered set of templates of one run. On the
// wire it is an object mapping concept name to template, keys in rank order.
type LessonTemplates []LessonTemplate

// Get returns the template for concept.
func (ts LessonTemplates) Get(concept string) (LessonTemplate, bool) {
	for _, t := range ts {
		if t.Concept == concept {
			return t, true
		}
	}
	return LessonTemplate{}, false
}

// MarshalJSON encodes the templates as an ordered object.
func (ts LessonTemplates) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, LessonTemplate](len(ts))
	for _, t := range ts {
		om.Set(t.Concept, t)
	}
	return json.Marshal(om)
}

// UnmarshalJSON decodes an ordered concept → template object.
func (ts *LessonTemplates) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, LessonTemplate]()
	if err := json.Unmarshal(data, om); err != nil {
		return fmt.Errorf("parsing lesson templates: %w", err)
	}
	out := make(LessonTemplates, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	*ts = out
	return nil
}

// MarshalYAML encodes the templates as a mapping in rank order.
func (ts LessonTemplates) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range ts {
		var value yaml.Node
		if err := value.Encode(t); err != nil {
			return nil, fmt.Errorf("encoding template %q: %w", t.Concept, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Concept},
			&value,
		)
	}
	return node, nil
}
