package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdb-educator/internal/aggregate"
	"github.com/pdiddy/pdb-educator/internal/hierarchy"
	"github.com/pdiddy/pdb-educator/internal/lesson"
	"github.com/pdiddy/pdb-educator/internal/tagger"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

func artifacts(t *testing.T) Artifacts {
	t.Helper()
	records := tagger.TagAll([]types.RawRecord{
		{ID: "1AAA", Title: "Enzyme complex", Method: "X-RAY DIFFRACTION", Resolution: 1.5, PolymerEntityCount: 1},
		{ID: "2BBB", Title: "Antibody receptor", Method: "ELECTRON MICROSCOPY", PolymerEntityCount: 3},
		{ID: "3CCC", Title: "DNA ligand", Method: "SOLUTION NMR", Resolution: 2.2, PolymerEntityCount: 2},
	})
	idx, err := aggregate.Aggregate(records, 0)
	require.NoError(t, err)
	return Artifacts{
		Hierarchy: hierarchy.Default(),
		Index:     idx,
		Records:   records,
		Templates: lesson.ForIndex(idx, 0, ""),
	}
}

func TestWriteAllRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := artifacts(t)

	paths, err := NewWriter(dir, "").WriteAll(a)
	require.NoError(t, err)
	assert.Len(t, paths, 4)

	idx, err := ReadConceptIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, a.Index, idx)

	recs, err := ReadTaggedRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, a.Records, recs)

	ts, err := ReadTemplates(dir)
	require.NoError(t, err)
	assert.Equal(t, a.Templates, ts)

	h, err := ReadHierarchy(dir)
	require.NoError(t, err)
	assert.Equal(t, a.Hierarchy, h)
}

func TestWriteAllIndentsJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, types.FormatJSON).WriteAll(artifacts(t))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ConceptMapFile+".json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"total_concepts\""), string(data[:40]))
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestWriteAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, types.FormatBoth).WriteAll(artifacts(t))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 8)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestWriteAllYAML(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter(dir, types.FormatYAML).WriteAll(artifacts(t))
	require.NoError(t, err)
	assert.Len(t, paths, 4)
	assert.NoFileExists(t, filepath.Join(dir, ConceptMapFile+".json"))

	data, err := os.ReadFile(filepath.Join(dir, ConceptMapFile+".yaml"))
	require.NoError(t, err)
	var idx types.ConceptIndex
	require.NoError(t, yaml.Unmarshal(data, &idx))
	assert.NotZero(t, idx.TotalConcepts)

	data, err = os.ReadFile(filepath.Join(dir, HierarchyFile+".yaml"))
	require.NoError(t, err)
	h, err := hierarchy.Parse(data)
	require.NoError(t, err, "the YAML hierarchy doubles as an override file")
	assert.Len(t, h.Levels, hierarchy.DefaultLevels)
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &node))
	require.Equal(t, yaml.MappingNode, node.Content[0].Kind, "hierarchy YAML is keyed by level label")
	assert.Equal(t, "Level 1: Basic Structure", node.Content[0].Content[0].Value)
}

func TestWriteAllEmptyRecordsIsArray(t *testing.T) {
	dir := t.TempDir()
	idx, err := aggregate.Aggregate(nil, 0)
	require.NoError(t, err)
	_, err = NewWriter(dir, types.FormatJSON).WriteAll(Artifacts{Hierarchy: hierarchy.Default(), Index: idx})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ConceptsFile+".json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteAllUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewWriter(filepath.Join(file, "sub"), types.FormatJSON).WriteAll(artifacts(t))
	assert.Error(t, err)
}

func TestWriteAllUnknownFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := NewWriter(dir, "xml").WriteAll(artifacts(t))
	require.ErrorContains(t, err, `unknown artifact format "xml"`)
	assert.Empty(t, paths)
	assert.NoDirExists(t, dir)
}

func TestReadMissingArtifact(t *testing.T) {
	_, err := ReadConceptIndex(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run build first")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, types.FormatBoth).WriteAll(artifacts(t))
	require.NoError(t, err)
	keep := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	require.NoError(t, Clean(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())

	assert.NoError(t, Clean(filepath.Join(dir, "missing")))
}

func TestWriteTeacherGuide(t *testing.T) {
	dir := t.TempDir()
	a := artifacts(t)

	paths, err := WriteTeacherGuide(dir, a.Index, a.Hierarchy, len(a.Records))
	require.NoError(t, err)
	require.Len(t, paths, 2)

	md, err := os.ReadFile(filepath.Join(dir, GuideMarkdown))
	require.NoError(t, err)
	assert.Contains(t, string(md), "generated from 3 structures")
	assert.Contains(t, string(md), "### Level 1: Basic Structure")
	assert.Contains(t, string(md), "| 1 | Protein Quaternary Structure | 3 | 1AAA, 2BBB, 3CCC |")

	html, err := os.ReadFile(filepath.Join(dir, GuideHTML))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>PDB Educator: Teacher's Guide</h1>")
	assert.Contains(t, string(html), "<table>")
}

func TestWriteQuickStart(t *testing.T) {
	dir := t.TempDir()
	a := artifacts(t)

	path, err := WriteQuickStart(dir, a.Index, len(a.Records))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, QuickStart), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "They draw on 3 structures")
	assert.Contains(t, md, "- **Protein Quaternary Structure**: 1AAA, 2BBB, 3CCC")
	assert.Contains(t, md, "X-ray Crystallography 1, Cryo-EM 1,\nNMR Spectroscopy 1 structures")
	assert.Contains(t, md, "## Lesson 6: Using Proteins to Solve Problems")
}

func TestWriteQuickStartEmptyIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := aggregate.Aggregate(nil, 0)
	require.NoError(t, err)

	path, err := WriteQuickStart(dir, idx, 0)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Structures from this dataset to open")
	assert.Contains(t, string(data), "X-ray Crystallography 0")
}
