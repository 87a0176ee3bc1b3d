// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs load, tag, aggregate, template, and export over an
// input directory of entry documents.
//
// With more than one worker, documents are loaded and tagged on an ants
// pool into index-addressed slots, then folded in contiguous chunks whose
// fragments are merged in chunk order. The artifacts are identical to a
// sequential run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/pdb-educator/internal/aggregate"
	"github.com/pdiddy/pdb-educator/internal/export"
	"github.com/pdiddy/pdb-educator/internal/hierarchy"
	"github.com/pdiddy/pdb-educator/internal/knowledge"
	"github.com/pdiddy/pdb-educator/internal/lesson"
	"github.com/pdiddy/pdb-educator/internal/loader"
	"github.com/pdiddy/pdb-educator/internal/tagger"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// ConfigError reports a configuration problem detected before any stage
// runs. No artifacts are written when it is returned.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Summary holds the outcome of a run.
type Summary struct {
	RunID     string
	Processed int
	Skipped   int
	Warnings  int
	Concepts  int
	Templates int
	Files     []string
}

// Total returns the number of input documents seen.
func (s Summary) Total() int {
	return s.Processed + s.Skipped
}

// slot holds the load+tag result of one input document.
type slot struct {
	record   types.TaggedRecord
	warnings []loader.FieldWarning
	err      error
}

// Run executes the pipeline described by cfg and prints per-document
// status lines to w. Records that fail to parse are skipped and counted;
// they never fail the run.
func Run(ctx context.Context, cfg types.PipelineConfig, w io.Writer) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := slog.Default().With("run", summary.RunID)

	if err := validate(cfg); err != nil {
		return summary, err
	}
	files, err := inputFiles(cfg.InputDir)
	if err != nil {
		return summary, err
	}
	h, err := hierarchy.Resolve(cfg.HierarchyFile)
	if err != nil {
		return summary, &ConfigError{Field: "hierarchy_file", Err: err}
	}
	logger.Info("starting build", "input", cfg.InputDir, "documents", len(files), "workers", cfg.Workers, "rules", tagger.RuleSetVersion)

	var slots []slot
	if cfg.Workers > 1 {
		slots, err = loadParallel(ctx, files, cfg.Workers)
	} else {
		slots, err = loadSequential(ctx, files)
	}
	if err != nil {
		return summary, err
	}

	tagged := make([]types.TaggedRecord, 0, len(slots))
	for i, s := range slots {
		id := loader.RecordID(files[i])
		for _, fw := range s.warnings {
			logger.Warn("field coerced", "record", fw.ID, "field", fw.Field, "value", fw.Value)
			summary.Warnings++
		}
		if s.err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", id, s.err)
			logger.Warn("record skipped", "record", id, "err", s.err)
			summary.Skipped++
			continue
		}
		fmt.Fprintf(w, "tagged  %s (%d concepts)\n", id, len(s.record.Concepts))
		tagged = append(tagged, s.record)
		summary.Processed++
	}

	frag, err := fold(ctx, tagged, cfg.Workers)
	if err != nil {
		return summary, err
	}
	idx := frag.Index(cfg.TopK)
	if err := aggregate.Verify(idx, tagged); err != nil {
		return summary, err
	}
	summary.Concepts = idx.TotalConcepts

	templates := lesson.ForIndex(idx, cfg.Templates, cfg.Difficulty)
	summary.Templates = len(templates)

	writer := export.NewWriter(cfg.OutputDir, cfg.Format)
	written, err := writer.WriteAll(export.Artifacts{
		Hierarchy: h,
		Index:     idx,
		Records:   tagged,
		Templates: templates,
	})
	summary.Files = append(summary.Files, written...)
	if err != nil {
		return summary, fmt.Errorf("exporting artifacts: %w", err)
	}

	if cfg.TeacherGuide {
		guide, err := export.WriteTeacherGuide(cfg.OutputDir, idx, h, len(tagged))
		summary.Files = append(summary.Files, guide...)
		if err != nil {
			return summary, fmt.Errorf("writing teacher guide: %w", err)
		}
	}

	if cfg.QuickStart {
		path, err := export.WriteQuickStart(cfg.OutputDir, idx, len(tagged))
		if err != nil {
			return summary, fmt.Errorf("writing quick start lessons: %w", err)
		}
		summary.Files = append(summary.Files, path)
	}

	if cfg.KnowledgeBase.Enabled {
		if err := ingest(ctx, cfg, summary.RunID, tagged, w); err != nil {
			return summary, err
		}
	}

	logger.Info("build complete", "processed", summary.Processed, "skipped", summary.Skipped, "concepts", summary.Concepts)
	return summary, nil
}

// validate checks settings that would otherwise fail after the stages ran.
// An empty format means JSON.
func validate(cfg types.PipelineConfig) error {
	if cfg.Format != "" && !cfg.Format.Valid() {
		return &ConfigError{Field: "format", Err: fmt.Errorf("unknown format %q: want json, yaml, or both", cfg.Format)}
	}
	if cfg.TopK > aggregate.MostCommonLimit {
		return &ConfigError{Field: "top_k", Err: fmt.Errorf("%d exceeds the limit of %d", cfg.TopK, aggregate.MostCommonLimit)}
	}
	return nil
}

// inputFiles lists *.json documents in dir sorted by name.
func inputFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, &ConfigError{Field: "input_dir", Err: errors.New("not set")}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConfigError{Field: "input_dir", Err: err}
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func process(path string) slot {
	raw, warnings, err := loader.LoadFile(path)
	if err != nil {
		return slot{warnings: warnings, err: err}
	}
	return slot{record: tagger.Tag(raw), warnings: warnings}
}

func loadSequential(ctx context.Context, files []string) ([]slot, error) {
	slots := make([]slot, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slots[i] = process(f)
	}
	return slots, nil
}

func loadParallel(ctx context.Context, files []string, workers int) ([]slot, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	slots := make([]slot, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			slots[i] = process(f)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting %s: %w", filepath.Base(f), err)
		}
	}
	wg.Wait()
	return slots, ctx.Err()
}

// fold aggregates tagged records. With more than one worker the records
// are split into contiguous chunks folded concurrently; fragments are then
// merged in chunk order.
func fold(ctx context.Context, tagged []types.TaggedRecord, workers int) (aggregate.Fragment, error) {
	if workers <= 1 || len(tagged) < 2 {
		return aggregate.Fold(tagged), nil
	}

	chunks := workers
	if chunks > len(tagged) {
		chunks = len(tagged)
	}
	size := (len(tagged) + chunks - 1) / chunks

	pool, err := ants.NewPool(workers)
	if err != nil {
		return aggregate.Fragment{}, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	fragments := make([]aggregate.Fragment, (len(tagged)+size-1)/size)
	var wg sync.WaitGroup
	for i := range fragments {
		chunk := tagged[i*size : min((i+1)*size, len(tagged))]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			fragments[i] = aggregate.Fold(chunk)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return aggregate.Fragment{}, fmt.Errorf("submitting fold: %w", err)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return aggregate.Fragment{}, err
	}
	return aggregate.MergeAll(fragments...), nil
}

func ingest(ctx context.Context, cfg types.PipelineConfig, runID string, tagged []types.TaggedRecord, w io.Writer) error {
	kb := cfg.KnowledgeBase
	if kb.Dir == "" {
		kb.Dir = cfg.OutputDir
	}
	store, err := knowledge.NewStore(kb)
	if err != nil {
		return fmt.Errorf("opening knowledge base: %w", err)
	}
	defer store.Close()

	res, err := store.Ingest(ctx, runID, tagged)
	if err != nil {
		return fmt.Errorf("ingesting records: %w", err)
	}
	fmt.Fprintf(w, "indexed %d records (%d replaced) into %s\n", res.Indexed, res.Removed, knowledge.Path(kb.Dir))
	return nil
}
