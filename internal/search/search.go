// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the RCSB Search API for entry identifiers to feed
// the acquire stage.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/pdb-educator/internal/httputil"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// searchAPIURL is the RCSB Search API endpoint. Declared as a var so tests
// can substitute an httptest server.
var searchAPIURL = "https://search.rcsb.org/rcsbsearch/v2/query"

const defaultMaxResults = 100

// Query holds the search parameters. Empty fields add no constraint.
type Query struct {
	// Text is a full-text query over entry annotations.
	Text string

	// Method is an exact experimental method, e.g. "X-RAY DIFFRACTION".
	Method string

	// MaxResolution keeps entries at or below this resolution in Ångström.
	MaxResolution float64

	// Start is the zero-based offset into the result set.
	Start int
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.Text == "" && q.Method == "" && q.MaxResolution <= 0
}

// Result is one hit from the search service.
type Result struct {
	Identifier string  `json:"identifier"`
	Score      float64 `json:"score"`
}

// Output holds a page of results and the total hit count.
type Output struct {
	Total   int      `json:"total_count"`
	Results []Result `json:"result_set"`
}

// IDs returns the result identifiers in rank order.
func (o Output) IDs() []string {
	ids := make([]string, len(o.Results))
	for i, r := range o.Results {
		ids[i] = r.Identifier
	}
	return ids
}

type node struct {
	Type            string  `json:"type"`
	Service         string  `json:"service,omitempty"`
	LogicalOperator string  `json:"logical_operator,omitempty"`
	Nodes           []node  `json:"nodes,omitempty"`
	Parameters      *params `json:"parameters,omitempty"`
}

type params struct {
	Attribute string `json:"attribute,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Value     any    `json:"value"`
}

type paginate struct {
	Start int `json:"start"`
	Rows  int `json:"rows"`
}

type requestOptions struct {
	Paginate paginate `json:"paginate"`
}

type request struct {
	Query          node           `json:"query"`
	ReturnType     string         `json:"return_type"`
	RequestOptions requestOptions `json:"request_options"`
}

// buildRequest combines the query constraints with a logical AND.
func buildRequest(q Query, rows int) request {
	var terms []node
	if q.Text != "" {
		terms = append(terms, node{Type: "terminal", Service: "full_text", Parameters: &params{Value: q.Text}})
	}
	if q.Method != "" {
		terms = append(terms, node{Type: "terminal", Service: "text", Parameters: &params{
			Attribute: "exptl.method", Operator: "exact_match", Value: strings.ToUpper(q.Method),
		}})
	}
	if q.MaxResolution > 0 {
		terms = append(terms, node{Type: "terminal", Service: "text", Parameters: &params{
			Attribute: "rcsb_entry_info.resolution_combined", Operator: "less_or_equal", Value: q.MaxResolution,
		}})
	}

	root := terms[0]
	if len(terms) > 1 {
		root = node{Type: "group", LogicalOperator: "and", Nodes: terms}
	}
	return request{
		Query:          root,
		ReturnType:     "entry",
		RequestOptions: requestOptions{Paginate: paginate{Start: q.Start, Rows: rows}},
	}
}

// Search runs q against the RCSB Search API. A query with no hits returns
// an empty Output and no error.
func Search(ctx context.Context, client *http.Client, q Query, cfg types.SearchConfig) (Output, error) {
	if q.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide text, a method, or a resolution limit")
	}
	rows := cfg.MaxResults
	if rows <= 0 {
		rows = defaultMaxResults
	}

	body, err := json.Marshal(buildRequest(q, rows))
	if err != nil {
		return Output{}, fmt.Errorf("encoding search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchAPIURL, bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Output{}, fmt.Errorf("RCSB search request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return Output{}, nil
	default:
		return Output{}, fmt.Errorf("RCSB search returned HTTP %d", resp.StatusCode)
	}

	var out Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Output{}, fmt.Errorf("parsing RCSB search response: %w", err)
	}
	return out, nil
}
