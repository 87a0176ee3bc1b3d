package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/tagger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pdb-educator",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pdb-educator %s (rule set %s)\n", version, tagger.RuleSetVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
