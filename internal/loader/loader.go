// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader reads entry documents and produces canonical RawRecords.
// A document that lacks its structure section fails with a RecordParseError;
// malformed optional scalars are coerced to neutral values and reported as
// FieldWarnings.
package loader

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// Source field paths in gjson syntax.
const (
	pathStruct      = "struct"
	pathTitle       = "struct.title"
	pathMethod      = "exptl.0.method"
	pathResolution  = "reflns.0.d_resolution_high"
	pathPolymer     = "rcsb_entry_info.polymer_entity_count"
	pathNonpolymer  = "rcsb_entry_info.nonpolymer_entity_count"
	pathWaterEntity = "rcsb_entry_info.water_entity_count"
)

// ErrRecordParse is matched by every RecordParseError.
var ErrRecordParse = errors.New("record parse error")

// RecordParseError reports a document that cannot become a RawRecord.
type RecordParseError struct {
	ID     string
	Reason string
	Err    error
}

func (e *RecordParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %s: %s: %v", e.ID, e.Reason, e.Err)
	}
	return fmt.Sprintf("record %s: %s", e.ID, e.Reason)
}

func (e *RecordParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRecordParse, e.Err}
	}
	return []error{ErrRecordParse}
}

// FieldWarning records a present but malformed field that was coerced to
// its neutral value. The record is still tagged.
type FieldWarning struct {
	ID    string
	Field string
	Value string
}

func (w FieldWarning) String() string {
	return fmt.Sprintf("record %s: field %s has malformed value %s, using default", w.ID, w.Field, w.Value)
}

// RecordID derives a record id from a document path: the file name
// without its extension.
func RecordID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (types.RawRecord, []FieldWarning, error) {
	id := RecordID(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawRecord{}, nil, &RecordParseError{ID: id, Reason: "unreadable", Err: err}
	}
	return Parse(id, data)
}

// Parse converts one entry document into a RawRecord.
func Parse(id string, data []byte) (types.RawRecord, []FieldWarning, error) {
	if !gjson.ValidBytes(data) {
		return types.RawRecord{}, nil, &RecordParseError{ID: id, Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return types.RawRecord{}, nil, &RecordParseError{ID: id, Reason: "document is not an object"}
	}
	if s := doc.Get(pathStruct); !s.Exists() || !s.IsObject() {
		return types.RawRecord{}, nil, &RecordParseError{ID: id, Reason: "missing struct section"}
	}

	c := coercer{id: id}
	rec := types.RawRecord{
		ID:                    id,
		Title:                 c.text(doc, pathTitle),
		Method:                c.text(doc, pathMethod),
		Resolution:            c.number(doc, pathResolution),
		PolymerEntityCount:    c.count(doc, pathPolymer),
		NonpolymerEntityCount: c.count(doc, pathNonpolymer),
		WaterEntityCount:      c.count(doc, pathWaterEntity),
	}
	return rec, c.warnings, nil
}

// coercer reads optional scalars, collecting a warning for each value it
// has to replace with its neutral default.
type coercer struct {
	id       string
	warnings []FieldWarning
}

func (c *coercer) warn(path string, r gjson.Result) {
	c.warnings = append(c.warnings, FieldWarning{ID: c.id, Field: path, Value: r.Raw})
}

func (c *coercer) text(doc gjson.Result, path string) string {
	r := doc.Get(path)
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	default:
		c.warn(path, r)
		return ""
	}
}

func (c *coercer) number(doc gjson.Result, path string) float64 {
	r := doc.Get(path)
	switch r.Type {
	case gjson.Null:
		return 0
	case gjson.Number:
		return r.Num
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.warn(path, r)
			return 0
		}
		return v
	default:
		c.warn(path, r)
		return 0
	}
}

// maxCount bounds entity counts; larger values are treated as malformed.
const maxCount = math.MaxInt32

func (c *coercer) count(doc gjson.Result, path string) int {
	r := doc.Get(path)
	switch r.Type {
	case gjson.Null:
		return 0
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) || r.Num < 0 || r.Num > maxCount {
			c.warn(path, r)
			return 0
		}
		return int(r.Num)
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > maxCount {
			c.warn(path, r)
			return 0
		}
		return v
	default:
		c.warn(path, r)
		return 0
	}
}
