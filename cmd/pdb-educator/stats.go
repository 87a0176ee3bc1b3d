// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdb-educator/internal/export"
	"github.com/pdiddy/pdb-educator/internal/tagger"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dataset statistics from the built artifacts",
	Long: `Stats summarizes the concept map and tagged records in the output
directory: record and concept totals, complexity and audience
distributions, experimental methods, and the top ranked concepts.

With --db it also reports the knowledge base and its most recent run.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Int("top", 10, "number of ranked concepts to list")
	statsCmd.Flags().Bool("db", false, "include knowledge base statistics")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("pipeline.output_dir")
	idx, err := export.ReadConceptIndex(dir)
	if err != nil {
		return err
	}
	records, err := export.ReadTaggedRecords(dir)
	if err != nil {
		return err
	}

	fmt.Println(heading("Dataset statistics"))
	fmt.Printf("Total structures:  %d\n", len(records))
	fmt.Printf("Unique concepts:   %d\n", idx.TotalConcepts)

	fmt.Println()
	fmt.Println(heading("Complexity levels"))
	printDistribution(idx.ComplexityDistribution)

	fmt.Println()
	fmt.Println(heading("Student audiences"))
	printDistribution(idx.AudienceDistribution)

	fmt.Println()
	fmt.Println(heading("Experimental methods"))
	for _, m := range tagger.MethodConcepts {
		fmt.Printf("  %-28s %d\n", m, idx.Frequency(m))
	}

	top, _ := cmd.Flags().GetInt("top")
	fmt.Println()
	fmt.Println(heading(fmt.Sprintf("Top %d concepts", min(top, len(idx.MostCommonConcepts)))))
	for i, c := range idx.Top(top) {
		fmt.Printf("  %2d. %-40s %d\n", i+1, c.Name, c.Frequency)
	}

	if withDB, _ := cmd.Flags().GetBool("db"); withDB {
		return printStoreStats(cmd)
	}
	return nil
}

func printDistribution(dist map[string]int) {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if dist[keys[i]] != dist[keys[j]] {
			return dist[keys[i]] > dist[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Printf("  %-28s %d\n", k, dist[k])
	}
}

func printStoreStats(cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(heading("Knowledge base"))
	fmt.Printf("Records:   %d\n", st.Records)
	fmt.Printf("Concepts:  %d\n", st.Concepts)
	if st.LastRun != nil {
		fmt.Printf("Last run:  %s at %s (rule set %s)\n",
			st.LastRun.ID, st.LastRun.StartedAt.Format("2006-01-02 15:04:05"), st.LastRun.RuleSet)
	}
	return nil
}
