// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdb-educator/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [artifact]",
	Short: "Print the JSON Schema of an exported artifact",
	Long: `Schema prints the JSON Schema for one artifact (` + strings.Join(schema.Artifacts, ", ") + `).
With --out, schemas for all artifacts are written to that directory as
<artifact>.schema.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().String("out", "", "write every artifact schema into this directory")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		if len(args) == 0 {
			return fmt.Errorf("provide an artifact name (%s) or --out", strings.Join(schema.Artifacts, ", "))
		}
		data, err := schema.For(args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating schema directory: %w", err)
	}
	names := schema.Artifacts
	if len(args) == 1 {
		names = args
	}
	for _, name := range names {
		data, err := schema.For(name)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name+".schema.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
