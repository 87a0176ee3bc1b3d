// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find PDB entries with the RCSB Search API",
	Long: `Search runs a full-text query against RCSB, optionally narrowed by
experimental method and resolution, and prints the matching PDB IDs.

--save writes the results in RCSB results.json form, which fetch --from
reads back. --fetch downloads the matches into the input directory.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringP("method", "m", "", `experimental method, e.g. "X-RAY DIFFRACTION", "ELECTRON MICROSCOPY", "SOLUTION NMR"`)
	f.Float64("max-resolution", 0, "keep entries at or below this resolution in Å")
	f.Int("rows", 0, "maximum results (default search.max_results)")
	f.Int("start", 0, "offset into the result set")
	f.String("save", "", "write results as RCSB results.json to this path")
	f.Bool("fetch", false, "download the matching entries")

	bindFlag("search.max_results", f, "rows")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	maxRes, _ := cmd.Flags().GetFloat64("max-resolution")
	start, _ := cmd.Flags().GetInt("start")
	q := search.Query{
		Text:          strings.Join(args, " "),
		Method:        method,
		MaxResolution: maxRes,
		Start:         start,
	}

	cfg := searchConfig()
	client := &http.Client{Timeout: cfg.Timeout}
	out, err := search.Search(cmd.Context(), client, q, cfg)
	if err != nil {
		return err
	}

	ids := out.IDs()
	fmt.Println(muted(fmt.Sprintf("%d of %d matches", len(ids), out.Total)))
	for _, r := range out.Results {
		fmt.Printf("%-6s  %.3f\n", r.Identifier, r.Score)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	if doFetch, _ := cmd.Flags().GetBool("fetch"); doFetch && len(ids) > 0 {
		fmt.Println()
		return fetchIDs(cmd, ids)
	}
	return nil
}
