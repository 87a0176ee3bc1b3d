// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdb-educator CLI. The build
// subcommand turns a directory of PDB entry documents into the educational
// framework artifacts; the other subcommands read those artifacts back.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdb-educator/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "pdb-educator",
	Short: "Build teaching materials from Protein Data Bank entries",
	Long: `pdb-educator reads PDB entry documents, tags each structure with
biology concepts, and exports a concept map, topic hierarchy, and lesson
templates for classroom use.

Use search and fetch to populate the input directory from RCSB, then run
build; query, stats, and explain read the artifacts it writes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(viper.GetString("log_level")); err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdb-educator.yaml or ~/.config/pdb-educator/pdb-educator.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("input-dir", defaultInputDir, "directory of PDB entry JSON documents")
	rootCmd.PersistentFlags().String("output-dir", defaultOutputDir, "directory holding the exported artifacts")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("pipeline.input_dir", rootCmd.PersistentFlags(), "input-dir")
	bindFlag("pipeline.output_dir", rootCmd.PersistentFlags(), "output-dir")

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdb-educator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdb-educator"))
		}
	}

	viper.SetEnvPrefix("PDB_EDUCATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
