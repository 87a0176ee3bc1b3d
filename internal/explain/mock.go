// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"context"
	"strings"
)

// mockAnswers is searched in order; the first keyword found in the prompt wins.
var mockAnswers = []struct {
	keyword, answer string
}{
	{"protein structure", "Protein structure refers to the three-dimensional arrangement of atoms in proteins. The shape determines the function."},
	{"enzyme", "Enzymes are protein catalysts that speed up chemical reactions in living organisms. Their active sites fit specific substrates."},
	{"cryo-em", "Cryo-electron microscopy (Cryo-EM) images flash-frozen molecules with electron beams to reconstruct their structures."},
	{"gene expression", "Gene expression is the process by which information from genes is used to synthesize functional products, usually proteins."},
	{"x-ray crystallography", "X-ray crystallography uses diffraction patterns from protein crystals to determine atomic-level structures."},
}

const (
	mockHeader   = "[Mock response]"
	mockFooter   = "This is a simplified explanation. Configure an OpenAI key or an Ollama server for detailed answers."
	mockFallback = "I can explain molecular biology concepts. Try asking about proteins, enzymes, or experimental methods."
)

// Mock answers from a fixed keyword table. It is always available and
// makes no network calls.
type Mock struct{}

func (Mock) Name() string { return BackendMock }

func (Mock) Available(context.Context) bool { return true }

func (Mock) Complete(ctx context.Context, prompt string, _ int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(prompt)
	for _, a := range mockAnswers {
		if strings.Contains(lower, a.keyword) {
			return mockHeader + "\n\n" + a.answer + "\n\n" + mockFooter, nil
		}
	}
	return mockHeader + "\n\n" + mockFallback, nil
}
