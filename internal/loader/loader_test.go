package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

const hemoglobin = `{
  "rcsb_id": "4HHB",
  "struct": {"title": "THE CRYSTAL STRUCTURE OF HUMAN DEOXYHAEMOGLOBIN AT 1.74 ANGSTROMS RESOLUTION"},
  "exptl": [{"method": "X-RAY DIFFRACTION"}],
  "reflns": [{"d_resolution_high": 1.74}],
  "rcsb_entry_info": {
    "polymer_entity_count": 2,
    "nonpolymer_entity_count": 2,
    "water_entity_count": 1
  }
}`

func TestParse(t *testing.T) {
	rec, warnings, err := Parse("4HHB", []byte(hemoglobin))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, types.RawRecord{
		ID:                    "4HHB",
		Title:                 "THE CRYSTAL STRUCTURE OF HUMAN DEOXYHAEMOGLOBIN AT 1.74 ANGSTROMS RESOLUTION",
		Method:                "X-RAY DIFFRACTION",
		Resolution:            1.74,
		PolymerEntityCount:    2,
		NonpolymerEntityCount: 2,
		WaterEntityCount:      1,
	}, rec)
}

func TestParseMissingOptionalSections(t *testing.T) {
	rec, warnings, err := Parse("1XYZ", []byte(`{"struct": {}}`))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, types.RawRecord{ID: "1XYZ"}, rec)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"struct": `},
		{"array document", `[{"struct": {}}]`},
		{"missing struct", `{"exptl": [{"method": "X-RAY DIFFRACTION"}]}`},
		{"struct not object", `{"struct": "title"}`},
		{"null struct", `{"struct": null}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse("BAD1", []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRecordParse))

			var pe *RecordParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "BAD1", pe.ID)
		})
	}
}

func TestParseCoercion(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		want         types.RawRecord
		wantWarnings []string
	}{
		{
			name: "numeric strings accepted",
			doc:  `{"struct": {}, "reflns": [{"d_resolution_high": "2.5"}], "rcsb_entry_info": {"polymer_entity_count": "3"}}`,
			want: types.RawRecord{ID: "C1", Resolution: 2.5, PolymerEntityCount: 3},
		},
		{
			name:         "non-numeric resolution",
			doc:          `{"struct": {}, "reflns": [{"d_resolution_high": "n/a"}]}`,
			want:         types.RawRecord{ID: "C1"},
			wantWarnings: []string{pathResolution},
		},
		{
			name:         "fractional count",
			doc:          `{"struct": {}, "rcsb_entry_info": {"polymer_entity_count": 1.5, "water_entity_count": 1}}`,
			want:         types.RawRecord{ID: "C1", WaterEntityCount: 1},
			wantWarnings: []string{pathPolymer},
		},
		{
			name:         "object where string expected",
			doc:          `{"struct": {"title": {"text": "x"}}, "exptl": [{"method": 7}]}`,
			want:         types.RawRecord{ID: "C1"},
			wantWarnings: []string{pathTitle, pathMethod},
		},
		{
			name: "nulls default silently",
			doc:  `{"struct": {"title": null}, "reflns": [{"d_resolution_high": null}], "rcsb_entry_info": {"polymer_entity_count": null}}`,
			want: types.RawRecord{ID: "C1"},
		},
		{
			name:         "count out of range",
			doc:          `{"struct": {}, "rcsb_entry_info": {"polymer_entity_count": 1e300, "nonpolymer_entity_count": -2, "water_entity_count": "99999999999"}}`,
			want:         types.RawRecord{ID: "C1"},
			wantWarnings: []string{pathPolymer, pathNonpolymer, pathWaterEntity},
		},
		{
			name:         "boolean count",
			doc:          `{"struct": {}, "rcsb_entry_info": {"nonpolymer_entity_count": true}}`,
			want:         types.RawRecord{ID: "C1"},
			wantWarnings: []string{pathNonpolymer},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, warnings, err := Parse("C1", []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)

			var fields []string
			for _, w := range warnings {
				assert.Equal(t, "C1", w.ID)
				assert.NotEmpty(t, w.String())
				fields = append(fields, w.Field)
			}
			assert.Equal(t, tt.wantWarnings, fields)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "4HHB.json")
	require.NoError(t, os.WriteFile(path, []byte(hemoglobin), 0o644))

	rec, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4HHB", rec.ID)
	assert.Equal(t, 2, rec.PolymerEntityCount)
}

func TestLoadFileUnreadable(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "MISSING.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordParse)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "4HHB", RecordID("/data/pdb/4HHB.json"))
	assert.Equal(t, "1abc", RecordID("1abc.json"))
	assert.Equal(t, "entry.v2", RecordID("dir/entry.v2.json"))
}
