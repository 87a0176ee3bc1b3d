// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// Teacher guide file names.
const (
	GuideMarkdown = "teacher_guide.md"
	GuideHTML     = "teacher_guide.html"
	QuickStart    = "quick_start_lessons.md"
)

const (
	// guideExamples caps the example ids listed per concept in the guide.
	guideExamples = 5
	quickExamples = 3
	quickHooks    = 3
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

type guideData struct {
	Records   int
	Index     types.ConceptIndex
	Hierarchy types.Hierarchy
}

// WriteTeacherGuide renders the educator guide as Markdown and HTML into
// dir. records is the number of structures the index was built from.
func WriteTeacherGuide(dir string, idx types.ConceptIndex, h types.Hierarchy, records int) ([]string, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"examples": func(concept string) string {
			return strings.Join(idx.Examples(concept, guideExamples), ", ")
		},
	}
	tmpl, err := template.New("teacher_guide.md.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/teacher_guide.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing guide template: %w", err)
	}

	var src bytes.Buffer
	if err := tmpl.Execute(&src, guideData{Records: records, Index: idx, Hierarchy: h}); err != nil {
		return nil, fmt.Errorf("rendering guide: %w", err)
	}

	var html bytes.Buffer
	html.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>PDB Educator: Teacher's Guide</title></head><body>\n")
	if err := md.Convert(src.Bytes(), &html); err != nil {
		return nil, fmt.Errorf("converting guide to HTML: %w", err)
	}
	html.WriteString("</body></html>\n")

	mdPath := filepath.Join(dir, GuideMarkdown)
	if err := writeAtomic(mdPath, src.Bytes()); err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(dir, GuideHTML)
	if err := writeAtomic(htmlPath, html.Bytes()); err != nil {
		return []string{mdPath}, err
	}
	return []string{mdPath, htmlPath}, nil
}

type quickStartData struct {
	Records int
	Hook    []types.ConceptCount
}

// WriteQuickStart renders ready-to-use lesson outlines into dir. The hook
// lesson points at example structures of the top ranked concepts.
func WriteQuickStart(dir string, idx types.ConceptIndex, records int) (string, error) {
	funcs := template.FuncMap{
		"freq": idx.Frequency,
		"examples": func(concept string) string {
			return strings.Join(idx.Examples(concept, quickExamples), ", ")
		},
	}
	tmpl, err := template.New("quick_start.md.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/quick_start.md.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing quick start template: %w", err)
	}

	var src bytes.Buffer
	if err := tmpl.Execute(&src, quickStartData{Records: records, Hook: idx.Top(quickHooks)}); err != nil {
		return "", fmt.Errorf("rendering quick start: %w", err)
	}

	path := filepath.Join(dir, QuickStart)
	if err := writeAtomic(path, src.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
