package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

func TestTagEnzymeXRay(t *testing.T) {
	got := Tag(types.RawRecord{
		ID:                 "1A00",
		Title:              "Enzyme X-RAY structure",
		Method:             "X-RAY DIFFRACTION",
		PolymerEntityCount: 1,
		Resolution:         1.8,
	})

	assert.Equal(t, "1A00", got.PDBID)
	assert.Subset(t, got.Concepts, []string{
		ConceptEnzymeFunction,
		ConceptQuaternaryStructure,
		ConceptXRay,
		ConceptDataQuality,
		ConceptHighResolution,
		ConceptStructureFunctionRel,
	})
	assert.Equal(t, types.ComplexityIntermediate, got.ComplexityLevel)
	assert.Equal(t, []string{AudienceCollege, AudienceCollegeAdvanced, AudienceHighSchool, AudienceResearch}, got.StudentAudience)
	assert.Equal(t, []string{
		"Understand how enzymes catalyze reactions",
		"Understand how X-ray data reveals protein structure",
		"Interpret structural data at 1.80Å resolution",
	}, got.KeyLearningObjectives)
}

func TestTagAntibodyReceptorEM(t *testing.T) {
	got := Tag(types.RawRecord{
		ID:                 "2B00",
		Title:              "Antibody Receptor Complex",
		Method:             "ELECTRON MICROSCOPY",
		PolymerEntityCount: 3,
	})

	assert.Subset(t, got.Concepts, []string{
		ConceptImmuneResponse,
		ConceptProteinLigandBinding,
		ConceptCellSignaling,
		ConceptCryoEM,
		ConceptQuaternaryStructure,
	})
	assert.NotContains(t, got.Concepts, ConceptDataQuality)
	assert.Equal(t, types.ComplexityAdvanced, got.ComplexityLevel)
	assert.Subset(t, got.StudentAudience, []string{AudienceUpperHighSchool, AudienceCollege, AudienceCollegeAdvanced})
	assert.Contains(t, got.KeyLearningObjectives, "Analyze multi-subunit protein interactions")
}

func TestTagComplexityBoundary(t *testing.T) {
	tests := []struct {
		polymers int
		want     types.ComplexityLevel
	}{
		{0, types.ComplexityIntermediate},
		{1, types.ComplexityIntermediate},
		{2, types.ComplexityAdvanced},
		{14, types.ComplexityAdvanced},
	}
	for _, tt := range tests {
		got := Tag(types.RawRecord{PolymerEntityCount: tt.polymers})
		assert.Equal(t, tt.want, got.ComplexityLevel, "polymers=%d", tt.polymers)
	}
}

func TestTagAdvancedAudienceSupersetsIntermediate(t *testing.T) {
	base := types.RawRecord{Title: "kinase", Method: "X-RAY DIFFRACTION", Resolution: 2.5}
	one, many := base, base
	one.PolymerEntityCount = 1
	many.PolymerEntityCount = 2

	a, b := Tag(one), Tag(many)
	assert.Contains(t, b.StudentAudience, AudienceUpperHighSchool)
	for _, aud := range a.StudentAudience {
		if aud == AudienceHighSchool {
			continue
		}
		assert.Contains(t, b.StudentAudience, aud)
	}
}

func TestTagMethodFirstMatchWins(t *testing.T) {
	tests := []struct {
		method string
		want   []string
	}{
		{"X-RAY DIFFRACTION", []string{ConceptXRay}},
		{"x-ray diffraction", []string{ConceptXRay}},
		{"ELECTRON MICROSCOPY", []string{ConceptCryoEM}},
		{"ELECTRON CRYSTALLOGRAPHY", []string{ConceptCryoEM}},
		{"SOLUTION NMR", []string{ConceptNMR}},
		{"X-RAY DIFFRACTION, SOLUTION NMR", []string{ConceptXRay}},
		{"NEUTRON DIFFRACTION", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := Tag(types.RawRecord{Method: tt.method})
			var methods []string
			for _, c := range got.Concepts {
				for _, m := range MethodConcepts {
					if c == m {
						methods = append(methods, c)
					}
				}
			}
			assert.Equal(t, tt.want, methods)
			if tt.want == nil {
				assert.NotContains(t, got.StudentAudience, AudienceCollegeAdvanced)
			}
		})
	}
}

func TestTagResolution(t *testing.T) {
	tests := []struct {
		name        string
		resolution  float64
		quality     bool
		highRes     bool
		wantSubject string
	}{
		{"absent", 0, false, false, ""},
		{"negative", -1, false, false, ""},
		{"high", 1.2, true, true, "Interpret structural data at 1.20Å resolution"},
		{"at cutoff", 2.0, true, false, "Interpret structural data at 2.00Å resolution"},
		{"low", 3.456, true, false, "Interpret structural data at 3.46Å resolution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tag(types.RawRecord{Resolution: tt.resolution})
			assert.Equal(t, tt.quality, got.HasConcept(ConceptDataQuality))
			assert.Equal(t, tt.highRes, got.HasConcept(ConceptHighResolution))
			assert.Equal(t, tt.highRes, contains(got.StudentAudience, AudienceResearch))
			if tt.wantSubject != "" {
				assert.Contains(t, got.KeyLearningObjectives, tt.wantSubject)
			}
		})
	}
}

func TestTagTitleKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"Immune complex", []string{ConceptImmuneResponse, ConceptProteinLigandBinding}},
		{"Ligand-bound kinase", []string{ConceptLigandBinding, ConceptDrugDesign}},
		{"tRNA synthetase", []string{ConceptNucleicAcidInteractions, ConceptGeneExpression}},
		{"DNA polymerase", []string{ConceptNucleicAcidInteractions, ConceptGeneExpression}},
		{"Receptor", []string{ConceptCellSignaling, ConceptStructureFunction}},
	}
	for _, tt := range tests {
		got := Tag(types.RawRecord{Title: tt.title})
		assert.Subset(t, got.Concepts, tt.want, tt.title)
	}
}

func TestTagEmptyRecordIsTotal(t *testing.T) {
	got := Tag(types.RawRecord{ID: "0000"})
	assert.Equal(t, []string{ConceptQuaternaryStructure, ConceptStructureFunctionRel}, got.Concepts)
	assert.Equal(t, types.ComplexityIntermediate, got.ComplexityLevel)
	assert.Equal(t, []string{AudienceCollege, AudienceHighSchool}, got.StudentAudience)
	assert.Empty(t, got.KeyLearningObjectives)
}

func TestTagConceptsSortedAndUnique(t *testing.T) {
	got := Tag(types.RawRecord{
		Title:              "Enzyme antibody immune receptor ligand DNA RNA",
		Method:             "SOLUTION NMR",
		PolymerEntityCount: 5,
		Resolution:         1.1,
	})
	seen := map[string]bool{}
	for i, c := range got.Concepts {
		assert.False(t, seen[c], "duplicate concept %q", c)
		seen[c] = true
		if i > 0 {
			assert.Less(t, got.Concepts[i-1], c)
		}
	}
	seenObj := map[string]bool{}
	for _, o := range got.KeyLearningObjectives {
		assert.False(t, seenObj[o], "duplicate objective %q", o)
		seenObj[o] = true
	}
}

func TestTagDeterministic(t *testing.T) {
	rec := types.RawRecord{ID: "4HHB", Title: "Hemoglobin receptor", Method: "X-RAY DIFFRACTION", PolymerEntityCount: 2, Resolution: 1.74}
	first := Tag(rec)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Tag(rec))
	}
}

func TestTagAll(t *testing.T) {
	recs := []types.RawRecord{{ID: "B"}, {ID: "A"}, {ID: "C"}}
	got := TagAll(recs)
	assert.Len(t, got, 3)
	for i, r := range recs {
		assert.Equal(t, r.ID, got[i].PDBID)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
