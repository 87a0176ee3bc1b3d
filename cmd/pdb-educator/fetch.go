// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/acquire"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [PDB IDs...]",
	Short: "Download PDB entry documents from RCSB",
	Long: `Fetch downloads one RCSB entry document per PDB ID into the input
directory as <ID>.json. IDs come from the arguments or from --from, which
accepts either a comma or whitespace separated list or an RCSB search
results.json file. Entries already on disk are skipped.`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.String("from", "", "read IDs from a list file or RCSB search results.json")
	f.Duration("delay", 0, "delay between downloads (default acquisition.download_delay)")
	f.Duration("timeout", 0, "per-request timeout (default acquisition.timeout)")

	bindFlag("acquisition.download_delay", f, "delay")
	bindFlag("acquisition.timeout", f, "timeout")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	words := args
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		fromFile, err := acquire.ReadIDs(from)
		if err != nil {
			return err
		}
		words = append(words, fromFile...)
	}
	ids := acquire.ParseIDs(strings.Join(words, " "))
	if len(ids) == 0 {
		return fmt.Errorf("no PDB IDs given: pass IDs as arguments or use --from")
	}
	return fetchIDs(cmd, ids)
}

func fetchIDs(cmd *cobra.Command, ids []string) error {
	cfg := acquisitionConfig()
	client := &http.Client{Timeout: cfg.Timeout}

	result := acquire.FetchBatch(cmd.Context(), client, ids, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d entries failed", result.Failed, result.Total())
	}
	return nil
}
