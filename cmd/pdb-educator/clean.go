// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdb-educator/internal/export"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove exported artifacts from the output directory",
	Long: `Clean deletes the JSON and YAML artifacts written by build. Other files
in the output directory, including the teacher guide and the knowledge
base, are left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("pipeline.output_dir")
		if err := export.Clean(dir); err != nil {
			return err
		}
		fmt.Printf("removed artifacts from %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
