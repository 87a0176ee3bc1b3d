// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// entryAPIBase is the RCSB Data API entry endpoint. Declared as a var so
// tests can substitute an httptest server.
var entryAPIBase = "https://data.rcsb.org/rest/v1/core/entry/"

// idPattern matches classic four-character PDB IDs ("4HHB") and their
// extended form ("pdb_00004hhb").
var idPattern = regexp.MustCompile(`^(?i)(?:pdb_0000)?([0-9][a-z0-9]{3})$`)

// Normalize returns the upper-case four-character form of a PDB ID.
func Normalize(identifier string) (string, bool) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(identifier))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// EntryURL returns the Data API URL for a normalized ID.
func EntryURL(id string) string {
	return entryAPIBase + id
}

// ParseIDs splits a comma- or whitespace-separated identifier list,
// dropping blanks and duplicates while keeping first-seen order.
func ParseIDs(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	seen := make(map[string]bool, len(fields))
	var ids []string
	for _, f := range fields {
		key := strings.ToUpper(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		ids = append(ids, f)
	}
	return ids
}

// ReadIDs reads identifiers from path. A JSON object is treated as an
// RCSB search response and its result_set identifiers are returned; any
// other content is parsed with ParseIDs.
func ReadIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading id list %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ParseIDs(string(data)), nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("%s: invalid JSON", path)
	}
	rs := gjson.GetBytes(trimmed, "result_set")
	if !rs.IsArray() {
		return nil, fmt.Errorf("%s: JSON without a result_set array", path)
	}
	var ids []string
	for _, id := range gjson.GetBytes(trimmed, "result_set.#.identifier").Array() {
		ids = append(ids, id.String())
	}
	return ParseIDs(strings.Join(ids, ",")), nil
}
