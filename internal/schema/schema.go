// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema publishes JSON Schema documents for the exported
// artifacts so downstream consumers can validate them.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/pdb-educator/internal/export"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// Artifacts lists the names accepted by For, in export order.
var Artifacts = export.ArtifactNames

func ptr(n uint64) *uint64 { return &n }

// newReflector inlines every definition and disallows undeclared fields.
// Types with custom wire shapes are mapped by hand.
func newReflector() *jsonschema.Reflector {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	r.Mapper = func(t reflect.Type) *jsonschema.Schema {
		switch t {
		case reflect.TypeOf(types.ConceptCount{}):
			return &jsonschema.Schema{
				Type:        "array",
				Description: "[concept name, frequency]",
				PrefixItems: []*jsonschema.Schema{
					{Type: "string"},
					{Type: "integer", Minimum: json.Number("1")},
				},
				Items:    jsonschema.FalseSchema,
				MinItems: ptr(2),
				MaxItems: ptr(2),
			}
		case reflect.TypeOf(types.Hierarchy{}):
			return &jsonschema.Schema{
				Type:        "object",
				Description: "level label to concept names, in level order",
				AdditionalProperties: &jsonschema.Schema{
					Type:  "array",
					Items: &jsonschema.Schema{Type: "string"},
				},
			}
		case reflect.TypeOf(types.LessonTemplates{}):
			return &jsonschema.Schema{
				Type:                 "object",
				Description:          "concept name to lesson template, in rank order",
				AdditionalProperties: inline(r.Reflect(types.LessonTemplate{})),
			}
		}
		return nil
	}
	return r
}

// inline strips the document-level keywords from a nested schema.
func inline(s *jsonschema.Schema) *jsonschema.Schema {
	s.Version = ""
	s.ID = ""
	return s
}

// For returns the indented JSON Schema for the named artifact.
func For(artifact string) ([]byte, error) {
	var v any
	switch artifact {
	case export.HierarchyFile:
		v = types.Hierarchy{}
	case export.ConceptMapFile:
		v = types.ConceptIndex{}
	case export.ConceptsFile:
		v = []types.TaggedRecord{}
	case export.TemplatesFile:
		v = types.LessonTemplates{}
	default:
		return nil, fmt.Errorf("unknown artifact %q (want one of %v)", artifact, Artifacts)
	}

	s := newReflector().Reflect(v)
	s.Title = artifact
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s schema: %w", artifact, err)
	}
	return append(out, '\n'), nil
}

// Known reports whether artifact names an exported artifact.
func Known(artifact string) bool {
	return slices.Contains(Artifacts, artifact)
}
