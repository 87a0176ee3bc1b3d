// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ComplexityLevel is the coarse difficulty classification of a record.
type ComplexityLevel string

const (
	ComplexityIntermediate ComplexityLevel = "Intermediate"
	ComplexityAdvanced     ComplexityLevel = "Advanced"
)

// RawRecord is one structural entry as read from its source document.
// Absent or malformed scalar fields hold their neutral value (empty or zero).
type RawRecord struct {
	// ID is the entry identifier (e.g. "4HHB").
	ID string `json:"id" yaml:"id"`

	// Title is the struct.title text.
	Title string `json:"title" yaml:"title"`

	// Method is the first experimental method (e.g. "X-RAY DIFFRACTION").
	Method string `json:"method" yaml:"method"`

	// Resolution is the high-resolution limit in Ångström; zero when absent.
	Resolution float64 `json:"resolution" yaml:"resolution"`

	PolymerEntityCount    int `json:"polymer_entity_count" yaml:"polymer_entity_count"`
	NonpolymerEntityCount int `json:"nonpolymer_entity_count" yaml:"nonpolymer_entity_count"`
	WaterEntityCount      int `json:"water_entity_count" yaml:"water_entity_count"`
}

// TaggedRecord is the classification result for one RawRecord.
// Concepts and StudentAudience are deduplicated and sorted.
type TaggedRecord struct {
	PDBID                 string          `json:"pdb_id" yaml:"pdb_id"`
	Title                 string          `json:"title" yaml:"title"`
	Concepts              []string        `json:"concepts" yaml:"concepts"`
	ComplexityLevel       ComplexityLevel `json:"complexity_level" yaml:"complexity_level"`
	StudentAudience       []string        `json:"student_audience" yaml:"student_audience"`
	KeyLearningObjectives []string        `json:"key_learning_objectives" yaml:"key_learning_objectives"`
}

// HasConcept reports whether the record carries the named concept.
func (r TaggedRecord) HasConcept(name string) bool {
	for _, c := range r.Concepts {
		if c == name {
			return true
		}
	}
	return false
}
