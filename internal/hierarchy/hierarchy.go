// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hierarchy supplies the static topic taxonomy, ordered from
// foundational to applied. It is configuration, not derived from records.
package hierarchy

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// DefaultLevels is the number of levels in the built-in taxonomy.
const DefaultLevels = 6

//go:embed hierarchy.yaml
var defaultYAML []byte

// Default returns the built-in six-level taxonomy.
func Default() types.Hierarchy {
	h, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in hierarchy: %v", err))
	}
	return h
}

// Load reads a taxonomy override from a YAML file.
func Load(path string) (types.Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Hierarchy{}, fmt.Errorf("reading hierarchy %s: %w", path, err)
	}
	h, err := Parse(data)
	if err != nil {
		return types.Hierarchy{}, fmt.Errorf("hierarchy %s: %w", path, err)
	}
	return h, nil
}

// Resolve returns the override at path, or the default when path is empty.
func Resolve(path string) (types.Hierarchy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates a taxonomy document.
func Parse(data []byte) (types.Hierarchy, error) {
	var h types.Hierarchy
	if err := yaml.Unmarshal(data, &h); err != nil {
		return types.Hierarchy{}, fmt.Errorf("parsing hierarchy: %w", err)
	}
	if len(h.Levels) == 0 {
		return types.Hierarchy{}, fmt.Errorf("hierarchy has no levels")
	}
	seen := make(map[string]bool, len(h.Levels))
	for i, l := range h.Levels {
		if l.Name == "" {
			return types.Hierarchy{}, fmt.Errorf("level %d has no name", i+1)
		}
		if seen[l.Name] {
			return types.Hierarchy{}, fmt.Errorf("duplicate level %q", l.Name)
		}
		seen[l.Name] = true
		if len(l.Concepts) == 0 {
			return types.Hierarchy{}, fmt.Errorf("level %q has no concepts", l.Name)
		}
	}
	return h, nil
}
