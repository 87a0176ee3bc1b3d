// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"unicode"

	"github.com/pdiddy/pdb-educator/internal/tagger"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

const (
	lessonIdeasTokens = 800
	searchMatches     = 3
	keyConcepts       = 5
	titleExcerpt      = 50
)

var conceptPromptTmpl = newPrompt("concept", `Explain the molecular biology concept "{{.Name}}" for {{.Level}} level students.

Context from real structural data:
- This concept appears in {{.Frequency}} protein structures in our database
{{- if .IDs}}
- Example structures: {{join .IDs ", "}}
{{- end}}
{{- if .Titles}}
- Real protein examples: {{join .Titles "; "}}
{{- end}}

Please provide:
1. A clear definition
2. Why this concept is important in biology
3. Real-world examples and applications
4. How students can visualize or understand this concept

Keep the explanation engaging and appropriate for {{.Level}} students.
`)

var structurePromptTmpl = newPrompt("structure", `Explain this protein structure for students:

PDB ID: {{.PDBID}}
Title: {{.Title}}
Biological concepts: {{join .Concepts ", "}}
Complexity level: {{.ComplexityLevel}}

Please explain:
1. What this protein does in living organisms
2. Why its structure is important
3. What students can learn from studying it
4. How they can explore it further
`)

var askPromptTmpl = newPrompt("ask", `You have access to a molecular biology educational database with:
- {{.Records}} protein structures
- {{.Concepts}} unique concepts
{{- if .Methods}}
- Experimental methods: {{join .Methods ", "}}
{{- end}}
{{- if .Levels}}
- Complexity levels: {{join .Levels ", "}}
{{- end}}
{{- if .Key}}

Key concepts include: {{join .Key ", "}}
{{- end}}

Question: {{.Question}}

Please provide a clear, educational explanation suitable for students learning molecular biology.
If the question is about a specific protein or structure, explain its biological significance.
`)

var lessonPromptTmpl = newPrompt("lesson", `Create a lesson plan for teaching "{{.Topic}}" to {{.Grade}} students.

Available resources:
- {{.Records}} real protein structures from the Protein Data Bank
- 3D visualization tools (RCSB PDB website)
- Educational concepts mapped to real structural data

Please suggest:
1. Learning objectives
2. Engaging opening activity (5-10 minutes)
3. Main lesson activities using real protein structures
4. Assessment ideas
5. Real-world connections
`)

func newPrompt(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(text))
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Explainer builds prompts from the concept index and tagged records and
// sends them to a Completer.
type Explainer struct {
	backend   Completer
	index     types.ConceptIndex
	records   []types.TaggedRecord
	maxTokens int
}

// NewExplainer returns an Explainer. maxTokens <= 0 uses DefaultMaxTokens.
func NewExplainer(backend Completer, idx types.ConceptIndex, records []types.TaggedRecord, maxTokens int) *Explainer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Explainer{backend: backend, index: idx, records: records, maxTokens: maxTokens}
}

type conceptFacts struct {
	Name      string
	Level     string
	Frequency int
	IDs       []string
	Titles    []string
}

// conceptFacts matches name case-insensitively as a substring of ranked
// concept names and of each record's concepts.
func (e *Explainer) conceptFacts(name, level string) conceptFacts {
	if level == "" {
		level = "general"
	}
	f := conceptFacts{Name: name, Level: level}
	needle := strings.ToLower(name)
	for _, cc := range e.index.MostCommonConcepts {
		if strings.Contains(strings.ToLower(cc.Name), needle) {
			f.Frequency = cc.Frequency
			break
		}
	}
	for _, r := range e.records {
		if !slices.ContainsFunc(r.Concepts, func(c string) bool {
			return strings.Contains(strings.ToLower(c), needle)
		}) {
			continue
		}
		if len(f.IDs) < 3 {
			f.IDs = append(f.IDs, r.PDBID)
		}
		if len(f.Titles) < 2 {
			f.Titles = append(f.Titles, excerpt(r.Title, titleExcerpt))
		}
		if len(f.IDs) == 3 {
			break
		}
	}
	return f
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Concept explains one concept for students at level ("general" if empty).
func (e *Explainer) Concept(ctx context.Context, name, level string) (string, error) {
	prompt, err := render(conceptPromptTmpl, e.conceptFacts(name, level))
	if err != nil {
		return "", err
	}
	return e.backend.Complete(ctx, prompt, e.maxTokens)
}

// Structure explains a single tagged record. The returned text starts with
// the record's stored fields followed by the generated explanation.
func (e *Explainer) Structure(ctx context.Context, pdbID string) (string, error) {
	id := strings.ToUpper(pdbID)
	i := slices.IndexFunc(e.records, func(r types.TaggedRecord) bool { return strings.ToUpper(r.PDBID) == id })
	if i < 0 {
		return "", fmt.Errorf("PDB ID %s not found in dataset", id)
	}
	rec := e.records[i]

	prompt, err := render(structurePromptTmpl, rec)
	if err != nil {
		return "", err
	}
	text, err := e.backend.Complete(ctx, prompt, e.maxTokens)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PDB ID: %s\n", rec.PDBID)
	fmt.Fprintf(&b, "Title: %s\n", rec.Title)
	fmt.Fprintf(&b, "Complexity: %s\n", rec.ComplexityLevel)
	fmt.Fprintf(&b, "Concepts: %s\n\n", strings.Join(rec.Concepts, ", "))
	b.WriteString(text)
	return b.String(), nil
}

type askFacts struct {
	Records  int
	Concepts int
	Methods  []string
	Levels   []string
	Key      []string
	Question string
}

func (e *Explainer) askFacts(question string) askFacts {
	f := askFacts{Records: len(e.records), Concepts: e.index.TotalConcepts, Question: question}
	for _, m := range tagger.MethodConcepts {
		if e.index.Frequency(m) > 0 {
			f.Methods = append(f.Methods, m)
		}
	}
	for _, lvl := range []types.ComplexityLevel{types.ComplexityIntermediate, types.ComplexityAdvanced} {
		if e.index.ComplexityDistribution[string(lvl)] > 0 {
			f.Levels = append(f.Levels, string(lvl))
		}
	}
	for _, cc := range e.index.Top(keyConcepts) {
		f.Key = append(f.Key, cc.Name)
	}
	return f
}

// Ask answers a free-form question with the dataset summary as context.
func (e *Explainer) Ask(ctx context.Context, question string) (string, error) {
	prompt, err := render(askPromptTmpl, e.askFacts(question))
	if err != nil {
		return "", err
	}
	return e.backend.Complete(ctx, prompt, e.maxTokens)
}

// LessonIdeas drafts a lesson plan for topic. grade defaults to "high school".
func (e *Explainer) LessonIdeas(ctx context.Context, topic, grade string) (string, error) {
	if grade == "" {
		grade = "high school"
	}
	prompt, err := render(lessonPromptTmpl, struct {
		Topic, Grade string
		Records      int
	}{topic, grade, len(e.records)})
	if err != nil {
		return "", err
	}
	return e.backend.Complete(ctx, prompt, max(e.maxTokens, lessonIdeasTokens))
}

// Search dispatches a query: a PDB-style ID (four characters, leading digit)
// is explained as a structure, a query matching ranked concept names explains up to three of
// them, and anything else is asked as a question.
func (e *Explainer) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if isPDBID(query) {
		return e.Structure(ctx, query)
	}

	needle := strings.ToLower(query)
	var matches []types.ConceptCount
	for _, cc := range e.index.MostCommonConcepts {
		if strings.Contains(strings.ToLower(cc.Name), needle) {
			matches = append(matches, cc)
		}
	}
	if len(matches) == 0 {
		return e.Ask(ctx, query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d concept(s) matching %q\n", len(matches), query)
	for _, cc := range matches[:min(len(matches), searchMatches)] {
		text, err := e.Concept(ctx, cc.Name, "")
		if err != nil {
			return "", fmt.Errorf("explaining %s: %w", cc.Name, err)
		}
		fmt.Fprintf(&b, "\n%s (%d structures)\n\n%s\n", cc.Name, cc.Frequency, text)
	}
	return b.String(), nil
}

func isPDBID(s string) bool {
	if len(s) != 4 || !unicode.IsDigit(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
