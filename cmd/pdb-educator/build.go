// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the educational framework from PDB entry documents",
	Long: `Build reads every *.json entry in the input directory, tags each
structure with biology concepts, aggregates a ranked concept map, and writes
concept_hierarchy, concept_map, extracted_concepts, and lesson_templates to
the output directory.

Malformed entries are skipped and counted; a missing input directory aborts
the run before anything is written.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.Int("workers", 1, "loader/tagger pool size (1 = sequential)")
	f.Int("top-k", 20, "number of ranked concepts in the concept map (at most 20)")
	f.Int("templates", 10, "number of top concepts that get a lesson template")
	f.String("difficulty", "Intermediate", "difficulty label for lesson templates")
	f.String("format", "json", "artifact format: json, yaml, or both")
	f.String("hierarchy-file", "", "YAML file overriding the built-in topic hierarchy")
	f.Bool("guide", false, "also write teacher_guide.md and teacher_guide.html")
	f.Bool("quick-start", false, "also write quick_start_lessons.md")
	f.Bool("knowledge", false, "ingest tagged records into the SQLite knowledge base")

	bindFlag("pipeline.workers", f, "workers")
	bindFlag("pipeline.top_k", f, "top-k")
	bindFlag("pipeline.templates", f, "templates")
	bindFlag("pipeline.difficulty", f, "difficulty")
	bindFlag("pipeline.format", f, "format")
	bindFlag("pipeline.hierarchy_file", f, "hierarchy-file")
	bindFlag("pipeline.teacher_guide", f, "guide")
	bindFlag("pipeline.quick_start", f, "quick-start")
	bindFlag("knowledge_base.enabled", f, "knowledge")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	summary, err := pipeline.Run(cmd.Context(), cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(heading("Build complete"))
	line := fmt.Sprintf("processed: %d, skipped: %d, concepts: %d", summary.Processed, summary.Skipped, summary.Concepts)
	if summary.Skipped > 0 {
		line = warnStyle.Render(line)
	}
	fmt.Println(line)
	if summary.Warnings > 0 {
		fmt.Println(muted(fmt.Sprintf("%d field warning(s); see log output", summary.Warnings)))
	}
	fmt.Println(muted(fmt.Sprintf("run %s: %d template(s), %d file(s) in %s",
		summary.RunID, summary.Templates, len(summary.Files), cfg.OutputDir)))
	return nil
}
