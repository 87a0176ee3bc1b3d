// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate folds TaggedRecords into a ConceptIndex.
//
// The fold produces Fragments, which are immutable partial results.
// Fragments combine with Merge, an associative operation, so callers can
// fold disjoint slices of the input concurrently and merge the results in a
// fixed order. The left operand's first-seen order wins, so merging
// fragments of contiguous input chunks in chunk order reproduces the
// sequential result exactly.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// MostCommonLimit caps the length of the ranked concept list.
const MostCommonLimit = 20

// ErrInvariant is matched by every InvariantError.
var ErrInvariant = errors.New("concept index invariant violated")

// InvariantError reports an index that disagrees with the records it was
// built from. It signals a defect in the fold, not bad input.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvariant, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// Fragment is the partial aggregate of a contiguous run of records.
type Fragment struct {
	order       []string
	freq        map[string]int
	examples    map[string][]string
	complexity  map[string]int
	audience    map[string]int
	occurrences int
	records     int
}

// Empty returns the identity element for Merge.
func Empty() Fragment {
	return Fragment{
		freq:       map[string]int{},
		examples:   map[string][]string{},
		complexity: map[string]int{},
		audience:   map[string]int{},
	}
}

// Records returns the number of records folded into f.
func (f Fragment) Records() int { return f.records }

// Occurrences returns the total number of concept tags folded into f.
func (f Fragment) Occurrences() int { return f.occurrences }

// Fold aggregates records in input order.
func Fold(records []types.TaggedRecord) Fragment {
	f := Empty()
	for _, r := range records {
		for _, c := range r.Concepts {
			if _, ok := f.freq[c]; !ok {
				f.order = append(f.order, c)
			}
			f.freq[c]++
			f.examples[c] = append(f.examples[c], r.PDBID)
			f.occurrences++
		}
		f.complexity[string(r.ComplexityLevel)]++
		for _, a := range r.StudentAudience {
			f.audience[a]++
		}
		f.records++
	}
	return f
}

// Merge combines two fragments into a new one. Counts add, example lists
// concatenate a before b, and concepts first seen in b are ordered after
// all concepts of a. Neither input is modified.
func Merge(a, b Fragment) Fragment {
	out := Empty()
	out.order = make([]string, 0, len(a.order)+len(b.order))
	for _, src := range []Fragment{a, b} {
		for _, c := range src.order {
			if _, ok := out.freq[c]; !ok {
				out.order = append(out.order, c)
			}
			out.freq[c] += src.freq[c]
			out.examples[c] = append(out.examples[c], src.examples[c]...)
		}
		for k, v := range src.complexity {
			out.complexity[k] += v
		}
		for k, v := range src.audience {
			out.audience[k] += v
		}
		out.occurrences += src.occurrences
		out.records += src.records
	}
	return out
}

// MergeAll merges fragments left to right. Pass fragments in worker-id
// order to keep tie-breaking independent of completion order.
func MergeAll(fragments ...Fragment) Fragment {
	out := Empty()
	for _, f := range fragments {
		out = Merge(out, f)
	}
	return out
}

// Index ranks the fragment's concepts and returns the ConceptIndex. The
// ranked list holds at most limit entries, and never more than
// MostCommonLimit; limit <= 0 uses MostCommonLimit.
func (f Fragment) Index(limit int) types.ConceptIndex {
	if limit <= 0 || limit > MostCommonLimit {
		limit = MostCommonLimit
	}

	ranked := make([]types.ConceptCount, 0, len(f.order))
	for _, c := range f.order {
		ranked = append(ranked, types.ConceptCount{Name: c, Frequency: f.freq[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	examples := make(map[string][]string, len(f.examples))
	for c, ids := range f.examples {
		examples[c] = append([]string(nil), ids...)
	}

	return types.ConceptIndex{
		TotalConcepts:          len(f.order),
		MostCommonConcepts:     ranked,
		ConceptToExamples:      examples,
		ComplexityDistribution: copyCounts(f.complexity),
		AudienceDistribution:   copyCounts(f.audience),
	}
}

// Aggregate folds records and returns the verified index.
func Aggregate(records []types.TaggedRecord, limit int) (types.ConceptIndex, error) {
	idx := Fold(records).Index(limit)
	if err := Verify(idx, records); err != nil {
		return types.ConceptIndex{}, err
	}
	return idx, nil
}

// Verify checks idx against the records it was built from: every record
// concept is indexed, frequencies sum to the number of concept tags, and
// the ranking is non-increasing.
func Verify(idx types.ConceptIndex, records []types.TaggedRecord) error {
	want := 0
	for _, r := range records {
		want += len(r.Concepts)
		for _, c := range r.Concepts {
			if _, ok := idx.ConceptToExamples[c]; !ok {
				return &InvariantError{Reason: fmt.Sprintf("concept %q of record %s missing from index", c, r.PDBID)}
			}
		}
	}

	got := 0
	for _, ids := range idx.ConceptToExamples {
		got += len(ids)
	}
	if got != want {
		return &InvariantError{Reason: fmt.Sprintf("frequency sum %d, records carry %d concept tags", got, want)}
	}
	if idx.TotalConcepts != len(idx.ConceptToExamples) {
		return &InvariantError{Reason: fmt.Sprintf("total_concepts %d, index holds %d", idx.TotalConcepts, len(idx.ConceptToExamples))}
	}

	for i, cc := range idx.MostCommonConcepts {
		if cc.Frequency != len(idx.ConceptToExamples[cc.Name]) {
			return &InvariantError{Reason: fmt.Sprintf("ranked frequency of %q is %d, examples hold %d", cc.Name, cc.Frequency, len(idx.ConceptToExamples[cc.Name]))}
		}
		if i > 0 && cc.Frequency > idx.MostCommonConcepts[i-1].Frequency {
			return &InvariantError{Reason: fmt.Sprintf("ranking increases at position %d", i)}
		}
	}
	return nil
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
