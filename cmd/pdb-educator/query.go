// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/knowledge"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [search terms]",
	Short: "Search tagged structures in the knowledge base",
	Long: `Query searches the SQLite knowledge base written by build --knowledge.
Search terms match structure titles (full-text); flags filter by concept,
experimental method, complexity level, or PDB ID.

Use --concepts to list concept frequencies instead of structures.`,
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringP("concept", "c", "", "filter by concept name (substring, case-insensitive)")
	f.StringP("pdb", "p", "", "look up one PDB ID")
	f.StringP("method", "m", "", "filter by experimental method: x-ray, cryo-em, nmr")
	f.StringP("complexity", "x", "", "filter by complexity level")
	f.Int("limit", 0, "maximum results (0 = use knowledge_base.max_results)")
	f.Bool("concepts", false, "list concept frequencies matching the search terms")
	f.Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func openStore() (*knowledge.Store, error) {
	cfg := knowledgeConfig()
	if _, err := os.Stat(knowledge.Path(cfg.Dir)); err != nil {
		return nil, fmt.Errorf("knowledge base not found in %s: run build --knowledge first", cfg.Dir)
	}
	return knowledge.NewStore(cfg)
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if list, _ := cmd.Flags().GetBool("concepts"); list {
		counts, err := store.ConceptCounts(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(counts)
		}
		for _, c := range counts {
			fmt.Printf("%4d  %s\n", c.Frequency, c.Name)
		}
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --concept, --pdb, --method, or --complexity")
	}

	if opts.PDBID != "" && opts.Query == "" && opts.Concept == "" && opts.Method == "" && opts.Complexity == "" {
		rec, err := store.Lookup(ctx, opts.PDBID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(rec)
		}
		printRecord(rec)
		return nil
	}

	results, err := store.Retrieve(ctx, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(results)
	}
	printResults(ctx, store, results)
	return nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) knowledge.QueryOptions {
	concept, _ := cmd.Flags().GetString("concept")
	pdbID, _ := cmd.Flags().GetString("pdb")
	method, _ := cmd.Flags().GetString("method")
	complexity, _ := cmd.Flags().GetString("complexity")
	limit, _ := cmd.Flags().GetInt("limit")

	return knowledge.QueryOptions{
		Query:      strings.Join(args, " "),
		Concept:    concept,
		PDBID:      pdbID,
		Method:     method,
		Complexity: complexity,
		MaxResults: limit,
	}
}

func printRecord(rec types.TaggedRecord) {
	fmt.Println(heading(rec.PDBID))
	fmt.Printf("Title:      %s\n", rec.Title)
	fmt.Printf("Complexity: %s\n", rec.ComplexityLevel)
	fmt.Printf("Audience:   %s\n", strings.Join(rec.StudentAudience, ", "))
	fmt.Println("Concepts:")
	for _, c := range rec.Concepts {
		fmt.Printf("  - %s\n", c)
	}
	fmt.Println("Learning objectives:")
	for _, o := range rec.KeyLearningObjectives {
		fmt.Printf("  - %s\n", o)
	}
}

func printResults(ctx context.Context, store *knowledge.Store, results []types.TaggedRecord) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("%-4s  %-6s  %-50s  %-12s  %s\n", "Rank", "PDB", "Title", "Complexity", "Concepts")
	fmt.Println(strings.Repeat("-", 90))
	for i, r := range results {
		title := truncate(r.Title, 50)
		fmt.Printf("%-4d  %-6s  %-50s  %-12s  %d\n", i+1, r.PDBID, title, r.ComplexityLevel, len(r.Concepts))
	}

	if st, err := store.Stats(ctx); err == nil {
		fmt.Println(muted(fmt.Sprintf("\n%d of %d records", len(results), st.Records)))
	}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
