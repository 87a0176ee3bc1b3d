// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tagger classifies RawRecords into educational concepts with a
// fixed, deterministic rule table. Rules are evaluated independently and
// their contributions are unioned; no rule suppresses another.
package tagger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// RuleSetVersion identifies the rule table. Tag output is stable for a
// given version.
const RuleSetVersion = "2026.1"

// Concept names.
const (
	ConceptEnzymeFunction          = "Enzyme Function"
	ConceptImmuneResponse          = "Immune Response"
	ConceptProteinLigandBinding    = "Protein-Ligand Binding"
	ConceptCellSignaling           = "Cell Signaling"
	ConceptStructureFunction       = "Protein Structure-Function"
	ConceptQuaternaryStructure     = "Protein Quaternary Structure"
	ConceptXRay                    = "X-ray Crystallography"
	ConceptCryoEM                  = "Cryo-EM"
	ConceptNMR                     = "NMR Spectroscopy"
	ConceptDataQuality             = "Data Quality & Resolution"
	ConceptHighResolution          = "High-Resolution Structures"
	ConceptLigandBinding           = "Ligand Binding"
	ConceptDrugDesign              = "Drug Design"
	ConceptNucleicAcidInteractions = "Nucleic Acid-Protein Interactions"
	ConceptGeneExpression          = "Gene Expression"
	ConceptStructureFunctionRel    = "Structure-Function Relationship"
)

// Audience labels.
const (
	AudienceHighSchool      = "High School"
	AudienceUpperHighSchool = "Upper High School"
	AudienceCollege         = "College"
	AudienceCollegeAdvanced = "College/Advanced"
	AudienceResearch        = "Research Level"
)

// MethodConcepts lists the concepts produced by the experimental-method rule.
var MethodConcepts = []string{ConceptXRay, ConceptCryoEM, ConceptNMR}

// highResolutionCutoff is the exclusive upper bound, in Ångström, for a
// high-resolution structure.
const highResolutionCutoff = 2.0

// signals are the normalized inputs the rules read.
type signals struct {
	title      string
	method     string
	resolution float64
	polymers   int
}

// contribution is what one rule adds to a record.
type contribution struct {
	concepts   []string
	objectives []string
	audience   []string
	complexity types.ComplexityLevel
}

// rule inspects the signals and returns its contribution, if any.
type rule func(s signals) (contribution, bool)

// titleRule fires when the lowercased title contains any of keywords.
func titleRule(keywords []string, concepts []string, objective string) rule {
	return func(s signals) (contribution, bool) {
		for _, k := range keywords {
			if strings.Contains(s.title, k) {
				return contribution{concepts: concepts, objectives: []string{objective}}, true
			}
		}
		return contribution{}, false
	}
}

func always(concept string) rule {
	return func(signals) (contribution, bool) {
		return contribution{concepts: []string{concept}}, true
	}
}

func complexityRule(s signals) (contribution, bool) {
	if s.polymers > 1 {
		return contribution{
			complexity: types.ComplexityAdvanced,
			audience:   []string{AudienceUpperHighSchool, AudienceCollege},
			objectives: []string{"Analyze multi-subunit protein interactions"},
		}, true
	}
	return contribution{
		complexity: types.ComplexityIntermediate,
		audience:   []string{AudienceHighSchool, AudienceCollege},
	}, true
}

// methodRule maps the experimental method to one technique concept. The
// first matching branch wins.
func methodRule(s signals) (contribution, bool) {
	var c contribution
	switch {
	case strings.Contains(s.method, "X-RAY"):
		c.concepts = []string{ConceptXRay}
		c.objectives = []string{"Understand how X-ray data reveals protein structure"}
	case strings.Contains(s.method, "ELECTRON"):
		c.concepts = []string{ConceptCryoEM}
		c.objectives = []string{"Understand electron microscopy and image processing"}
	case strings.Contains(s.method, "NMR"):
		c.concepts = []string{ConceptNMR}
		c.objectives = []string{"Understand how NMR reveals protein structure in solution"}
	default:
		return contribution{}, false
	}
	c.audience = []string{AudienceCollegeAdvanced}
	return c, true
}

func resolutionRule(s signals) (contribution, bool) {
	if s.resolution <= 0 {
		return contribution{}, false
	}
	c := contribution{
		concepts:   []string{ConceptDataQuality},
		objectives: []string{fmt.Sprintf("Interpret structural data at %.2fÅ resolution", s.resolution)},
	}
	if s.resolution < highResolutionCutoff {
		c.concepts = append(c.concepts, ConceptHighResolution)
		c.audience = []string{AudienceResearch}
	}
	return c, true
}

// rules is evaluated in order; order only affects objective ordering.
var rules = []rule{
	titleRule([]string{"enzyme"}, []string{ConceptEnzymeFunction},
		"Understand how enzymes catalyze reactions"),
	titleRule([]string{"antibody", "immune"}, []string{ConceptImmuneResponse, ConceptProteinLigandBinding},
		"Explain antigen-antibody recognition"),
	titleRule([]string{"receptor"}, []string{ConceptCellSignaling, ConceptStructureFunction},
		"Describe receptor-ligand interactions"),
	always(ConceptQuaternaryStructure),
	complexityRule,
	methodRule,
	resolutionRule,
	titleRule([]string{"ligand"}, []string{ConceptLigandBinding, ConceptDrugDesign},
		"Understand molecular recognition"),
	titleRule([]string{"dna", "rna"}, []string{ConceptNucleicAcidInteractions, ConceptGeneExpression},
		"Connect DNA sequence to protein structure"),
	always(ConceptStructureFunctionRel),
}

// Tag applies the rule table to rec. It is total: every record yields a
// TaggedRecord.
func Tag(rec types.RawRecord) types.TaggedRecord {
	s := signals{
		title:      strings.ToLower(rec.Title),
		method:     strings.ToUpper(rec.Method),
		resolution: rec.Resolution,
		polymers:   rec.PolymerEntityCount,
	}

	var (
		concepts   []string
		audience   []string
		objectives []string
		complexity = types.ComplexityIntermediate
	)
	for _, r := range rules {
		c, ok := r(s)
		if !ok {
			continue
		}
		concepts = append(concepts, c.concepts...)
		audience = append(audience, c.audience...)
		objectives = append(objectives, c.objectives...)
		if c.complexity != "" {
			complexity = c.complexity
		}
	}

	return types.TaggedRecord{
		PDBID:                 rec.ID,
		Title:                 rec.Title,
		Concepts:              sortedSet(concepts),
		ComplexityLevel:       complexity,
		StudentAudience:       sortedSet(audience),
		KeyLearningObjectives: dedupe(objectives),
	}
}

// TagAll tags records in order.
func TagAll(recs []types.RawRecord) []types.TaggedRecord {
	out := make([]types.TaggedRecord, len(recs))
	for i, r := range recs {
		out[i] = Tag(r)
	}
	return out
}

func sortedSet(in []string) []string {
	out := dedupe(in)
	sort.Strings(out)
	return out
}

// dedupe removes repeats, keeping first occurrences in order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
