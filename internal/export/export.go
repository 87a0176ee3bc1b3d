// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the framework artifacts to an output directory and
// reads them back. Every artifact is written whole to a temporary file and
// renamed into place, so a reader never observes a partial document.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdb-educator/internal/fileutil"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// Artifact file names, without extension.
const (
	HierarchyFile  = "concept_hierarchy"
	ConceptMapFile = "concept_map"
	ConceptsFile   = "extracted_concepts"
	TemplatesFile  = "lesson_templates"
)

// ArtifactNames lists the artifacts in write order.
var ArtifactNames = []string{HierarchyFile, ConceptMapFile, ConceptsFile, TemplatesFile}

// Artifacts groups the documents produced by one pipeline run.
type Artifacts struct {
	Hierarchy types.Hierarchy
	Index     types.ConceptIndex
	Records   []types.TaggedRecord
	Templates types.LessonTemplates
}

// Writer writes artifacts into Dir in the configured format.
type Writer struct {
	Dir    string
	Format types.ArtifactFormat
}

// NewWriter returns a Writer for dir. An empty format means JSON.
func NewWriter(dir string, format types.ArtifactFormat) *Writer {
	if format == "" {
		format = types.FormatJSON
	}
	return &Writer{Dir: dir, Format: format}
}

// WriteAll writes the four artifacts and returns the paths written.
func (w *Writer) WriteAll(a Artifacts) ([]string, error) {
	if !w.Format.Valid() {
		return nil, fmt.Errorf("unknown artifact format %q: want json, yaml, or both", w.Format)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	records := a.Records
	if records == nil {
		records = []types.TaggedRecord{}
	}
	docs := map[string]any{
		HierarchyFile:  a.Hierarchy,
		ConceptMapFile: a.Index,
		ConceptsFile:   records,
		TemplatesFile:  a.Templates,
	}

	var written []string
	for _, name := range ArtifactNames {
		paths, err := w.write(name, docs[name])
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

func (w *Writer) write(name string, v any) ([]string, error) {
	var paths []string
	if w.Format == types.FormatJSON || w.Format == types.FormatBoth {
		data, err := marshalJSON(v)
		if err != nil {
			return paths, fmt.Errorf("marshaling %s: %w", name, err)
		}
		path := filepath.Join(w.Dir, name+".json")
		if err := writeAtomic(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if w.Format == types.FormatYAML || w.Format == types.FormatBoth {
		data, err := yaml.Marshal(v)
		if err != nil {
			return paths, fmt.Errorf("marshaling %s YAML: %w", name, err)
		}
		path := filepath.Join(w.Dir, name+".yaml")
		if err := writeAtomic(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// marshalJSON encodes v with two-space indentation and a trailing newline.
func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeAtomic(path string, data []byte) error {
	return fileutil.WriteAtomic(path, data, 0o644)
}

// ReadConceptIndex reads concept_map.json from dir.
func ReadConceptIndex(dir string) (types.ConceptIndex, error) {
	var idx types.ConceptIndex
	err := readJSON(filepath.Join(dir, ConceptMapFile+".json"), &idx)
	return idx, err
}

// ReadTaggedRecords reads extracted_concepts.json from dir.
func ReadTaggedRecords(dir string) ([]types.TaggedRecord, error) {
	var recs []types.TaggedRecord
	err := readJSON(filepath.Join(dir, ConceptsFile+".json"), &recs)
	return recs, err
}

// ReadTemplates reads lesson_templates.json from dir.
func ReadTemplates(dir string) (types.LessonTemplates, error) {
	var ts types.LessonTemplates
	err := readJSON(filepath.Join(dir, TemplatesFile+".json"), &ts)
	return ts, err
}

// ReadHierarchy reads concept_hierarchy.json from dir.
func ReadHierarchy(dir string) (types.Hierarchy, error) {
	var h types.Hierarchy
	err := readJSON(filepath.Join(dir, HierarchyFile+".json"), &h)
	return h, err
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not found: run build first: %w", filepath.Base(path), err)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Clean removes previously written artifacts from dir. Missing files are
// ignored.
func Clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading output directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		for _, name := range ArtifactNames {
			if base == name {
				if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
					return fmt.Errorf("removing %s: %w", e.Name(), err)
				}
			}
		}
	}
	return nil
}
