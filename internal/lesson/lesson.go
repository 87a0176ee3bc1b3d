// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lesson synthesizes five-phase lesson templates for concepts.
// A template depends only on the concept name and difficulty label.
package lesson

import (
	"fmt"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

const (
	// DefaultDifficulty labels templates when none is configured.
	DefaultDifficulty = "Intermediate"

	// DefaultCount is the number of top concepts that get a template.
	DefaultCount = 10
)

// Phase names of the instructional schedule, in order.
const (
	PhaseEngagement  = "Engagement"
	PhaseExploration = "Exploration"
	PhaseExplanation = "Explanation"
	PhaseElaboration = "Elaboration"
	PhaseEvaluation  = "Evaluation"
)

var scientificPractices = []string{
	"Asking Questions",
	"Developing Models",
	"Planning Investigations",
	"Analyzing Data",
	"Constructing Explanations",
	"Engaging in Argument from Evidence",
	"Obtaining, Evaluating & Communicating Information",
}

var resources = []string{
	"RCSB PDB (www.rcsb.org)",
	"Mol* Viewer (online 3D visualization)",
	"NCBI Structure Database",
	"NextStrain for viral protein evolution",
}

// Generate returns the lesson template for concept at the given difficulty.
func Generate(concept, difficulty string) types.LessonTemplate {
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	return types.LessonTemplate{
		Concept:         concept,
		DifficultyLevel: difficulty,
		LearningObjectives: []string{
			fmt.Sprintf("Students will understand the core principle of %s", concept),
			fmt.Sprintf("Students will visualize %s with molecular structures", concept),
			fmt.Sprintf("Students will apply %s to real biological problems", concept),
		},
		ScientificPractices: append([]string(nil), scientificPractices...),
		TeachingSequence: []types.Phase{
			{
				Phase: PhaseEngagement,
				Activities: []string{
					"Show real PDB structure (3D visualization)",
					fmt.Sprintf("Ask guiding questions about %s", concept),
				},
				Duration: "5-10 minutes",
			},
			{
				Phase: PhaseExploration,
				Activities: []string{
					"Students interact with PDB structure online",
					"Students collect data about structure features",
					"Students form hypotheses",
				},
				Duration: "15-20 minutes",
			},
			{
				Phase: PhaseExplanation,
				Activities: []string{
					fmt.Sprintf("Connect observations to the principles of %s", concept),
					"Explain concept through guided discovery",
					"Use multiple representations (2D, 3D, sequence)",
				},
				Duration: "15 minutes",
			},
			{
				Phase: PhaseElaboration,
				Activities: []string{
					"Apply concept to similar structures",
					"Solve problems using PDB data",
					"Make connections to other concepts",
				},
				Duration: "15-20 minutes",
			},
			{
				Phase: PhaseEvaluation,
				Activities: []string{
					"Concept mapping exercise",
					fmt.Sprintf("Written explanation of %s", concept),
					"Peer discussion and critique",
				},
				Duration: "10-15 minutes",
			},
		},
		Resources: append([]string(nil), resources...),
		Assessment: types.Assessment{
			Formative: "Observation checklists, concept sketches, peer feedback",
			Summative: "Concept map, explanation essay, problem-solving tasks",
		},
		Connections: types.Connections{
			PreviousConcepts:      fmt.Sprintf("Concepts that should be taught before %s", concept),
			SubsequentConcepts:    fmt.Sprintf("Concepts that build on %s", concept),
			RealWorldApplications: "Disease research, drug development, biotechnology",
		},
	}
}

// ForIndex generates one template per top-k ranked concept of idx, in rank
// order. k <= 0 uses DefaultCount.
func ForIndex(idx types.ConceptIndex, k int, difficulty string) types.LessonTemplates {
	if k <= 0 {
		k = DefaultCount
	}
	top := idx.Top(k)
	out := make(types.LessonTemplates, 0, len(top))
	for _, cc := range top {
		out = append(out, Generate(cc.Name, difficulty))
	}
	return out
}
