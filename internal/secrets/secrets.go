// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files,
// one secret per file: the file name is the key and the trimmed contents
// are the value. Environment variables fill in keys the directory lacks.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the secrets directory used by the CLI.
const DefaultDir = ".secrets"

// Known keys and their environment fallbacks.
const (
	OpenAIAPIKey = "openai-api-key"
	OllamaURL    = "ollama-url"
)

var envFallback = map[string]string{
	OpenAIAPIKey: "OPENAI_API_KEY",
	OllamaURL:    "OLLAMA_HOST",
}

// Load reads all files in dir. A missing directory yields an empty map.
// Unreadable files are logged and skipped; dotfiles, subdirectories, and
// blank files are ignored.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "err", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Get returns key from the loaded secrets, falling back to the key's
// environment variable. The empty string means the secret is not set.
func Get(loaded map[string]string, key string) string {
	if v := loaded[key]; v != "" {
		return v
	}
	if env, ok := envFallback[key]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}
