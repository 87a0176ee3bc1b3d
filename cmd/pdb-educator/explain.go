// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdb-educator/internal/explain"
	"github.com/pdiddy/pdb-educator/internal/export"
)

var explainCmd = &cobra.Command{
	Use:   "explain [query]",
	Short: "Explain concepts and structures with a language model",
	Long: `Explain generates student-facing explanations grounded in the built
artifacts. The backend is OpenAI when an API key is configured, a local
Ollama server when one answers, and a canned mock otherwise.

A positional query that looks like a PDB ID explains that structure; one
that matches concept names explains those concepts; anything else is
answered as a question.`,
	RunE: runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.StringP("concept", "c", "", "explain a concept")
	f.StringP("pdb", "p", "", "explain a PDB structure")
	f.StringP("ask", "a", "", "ask a question about molecular biology")
	f.StringP("lesson", "l", "", "draft lesson ideas for a topic")
	f.String("level", "high school", "student level: elementary, middle school, high school, college")
	f.String("backend", "auto", "completion backend: auto, openai, ollama, mock")
	f.String("model", "", "model identifier for the selected backend")

	bindFlag("ai.backend", f, "backend")
	bindFlag("ai.model", f, "model")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	concept, _ := cmd.Flags().GetString("concept")
	pdbID, _ := cmd.Flags().GetString("pdb")
	question, _ := cmd.Flags().GetString("ask")
	topic, _ := cmd.Flags().GetString("lesson")
	level, _ := cmd.Flags().GetString("level")
	query := strings.Join(args, " ")

	if concept == "" && pdbID == "" && question == "" && topic == "" && query == "" {
		return fmt.Errorf("nothing to explain: provide a query, --concept, --pdb, --ask, or --lesson")
	}

	dir := viper.GetString("pipeline.output_dir")
	idx, err := export.ReadConceptIndex(dir)
	if err != nil {
		return err
	}
	records, err := export.ReadTaggedRecords(dir)
	if err != nil {
		return err
	}

	cfg := aiConfig()
	candidates, err := explain.Backends(cfg, loadedSecrets)
	if err != nil {
		return err
	}
	backend, err := explain.Select(ctx, candidates...)
	if err != nil {
		return err
	}
	if backend.Name() == explain.BackendMock {
		fmt.Println(warn("no language model available: using canned mock responses"))
	} else {
		fmt.Println(muted("backend: " + backend.Name()))
	}

	e := explain.NewExplainer(explain.NewLimited(backend, cfg.RequestsPerSecond), idx, records, cfg.MaxTokens)

	var out string
	switch {
	case concept != "":
		fmt.Println(heading(concept))
		out, err = e.Concept(ctx, concept, level)
	case pdbID != "":
		out, err = e.Structure(ctx, pdbID)
	case question != "":
		out, err = e.Ask(ctx, question)
	case topic != "":
		fmt.Println(heading("Lesson ideas: " + topic))
		out, err = e.LessonIdeas(ctx, topic, level)
	default:
		out, err = e.Search(ctx, query)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
