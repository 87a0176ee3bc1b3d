package lesson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

func TestGenerate(t *testing.T) {
	tmpl := Generate("Enzyme Function", "Advanced")

	assert.Equal(t, "Enzyme Function", tmpl.Concept)
	assert.Equal(t, "Advanced", tmpl.DifficultyLevel)
	require.Len(t, tmpl.TeachingSequence, 5)

	phases := []string{PhaseEngagement, PhaseExploration, PhaseExplanation, PhaseElaboration, PhaseEvaluation}
	durations := []string{"5-10 minutes", "15-20 minutes", "15 minutes", "15-20 minutes", "10-15 minutes"}
	for i, p := range tmpl.TeachingSequence {
		assert.Equal(t, phases[i], p.Phase)
		assert.Equal(t, durations[i], p.Duration)
		assert.NotEmpty(t, p.Activities)
	}

	assert.Len(t, tmpl.LearningObjectives, 3)
	for _, o := range tmpl.LearningObjectives {
		assert.Contains(t, o, "Enzyme Function")
	}
	assert.Contains(t, tmpl.Connections.PreviousConcepts, "Enzyme Function")
	assert.Contains(t, tmpl.Connections.SubsequentConcepts, "Enzyme Function")
	assert.NotEmpty(t, tmpl.Resources)
	assert.NotEmpty(t, tmpl.ScientificPractices)
	assert.NotEmpty(t, tmpl.Assessment.Formative)
	assert.NotEmpty(t, tmpl.Assessment.Summative)
}

func TestGenerateDefaultDifficulty(t *testing.T) {
	assert.Equal(t, DefaultDifficulty, Generate("Cryo-EM", "").DifficultyLevel)
}

func TestGenerateIsIndependentPerCall(t *testing.T) {
	a := Generate("A", "")
	a.Resources[0] = "changed"
	a.ScientificPractices[0] = "changed"
	b := Generate("B", "")
	assert.NotEqual(t, "changed", b.Resources[0])
	assert.NotEqual(t, "changed", b.ScientificPractices[0])
}

func TestForIndex(t *testing.T) {
	var ranked []types.ConceptCount
	for i := 0; i < 15; i++ {
		ranked = append(ranked, types.ConceptCount{Name: strings.Repeat("c", i+1), Frequency: 15 - i})
	}
	idx := types.ConceptIndex{MostCommonConcepts: ranked}

	got := ForIndex(idx, 0, "")
	require.Len(t, got, DefaultCount)
	for i, tmpl := range got {
		assert.Equal(t, ranked[i].Name, tmpl.Concept)
		assert.Equal(t, DefaultDifficulty, tmpl.DifficultyLevel)
	}

	assert.Len(t, ForIndex(idx, 3, "Intro"), 3)
	assert.Len(t, ForIndex(idx, 50, ""), 15)
	assert.Empty(t, ForIndex(types.ConceptIndex{}, 0, ""))

	tmpl, ok := got.Get("ccc")
	assert.True(t, ok)
	assert.Equal(t, "ccc", tmpl.Concept)
	_, ok = got.Get("missing")
	assert.False(t, ok)
}
