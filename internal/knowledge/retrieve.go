// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

// QueryOptions holds parameters for knowledge base queries.
type QueryOptions struct {
	// Query is an FTS5 search over record titles.
	Query string

	// Concept keeps records carrying a concept whose name contains this
	// text, case-insensitively.
	Concept string

	// Complexity keeps records whose complexity level contains this text,
	// case-insensitively.
	Complexity string

	// Method keeps records whose experimental method concept contains this
	// text, case-insensitively ("x-ray", "cryo", "nmr").
	Method string

	// PDBID keeps a single record, matched case-insensitively.
	PDBID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Concept == "" && q.Complexity == "" && q.Method == "" && q.PDBID == ""
}

// Retrieve returns tagged records matching opts. Title searches are ranked
// by relevance; filter-only queries are ordered by PDB id.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.TaggedRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.pdb_id, r.title, r.complexity, r.audience, r.objectives
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.pdb_id, r.title, r.complexity, r.audience, r.objectives
			FROM records r
			WHERE 1=1`)
	}

	if opts.PDBID != "" {
		qb.WriteString(` AND upper(r.pdb_id) = upper(?)`)
		args = append(args, opts.PDBID)
	}
	if opts.Complexity != "" {
		qb.WriteString(` AND instr(lower(r.complexity), lower(?)) > 0`)
		args = append(args, opts.Complexity)
	}
	if opts.Method != "" {
		qb.WriteString(` AND instr(lower(r.method), lower(?)) > 0`)
		args = append(args, opts.Method)
	}
	if opts.Concept != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM record_concepts rc
			WHERE rc.pdb_id = r.pdb_id AND instr(lower(rc.concept), lower(?)) > 0)`)
		args = append(args, opts.Concept)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.pdb_id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge base: %w", err)
	}
	defer rows.Close()

	var results []types.TaggedRecord
	for rows.Next() {
		var (
			rec            types.TaggedRecord
			complexity     string
			audienceJSON   sql.NullString
			objectivesJSON sql.NullString
		)
		if err := rows.Scan(&rec.PDBID, &rec.Title, &complexity, &audienceJSON, &objectivesJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.ComplexityLevel = types.ComplexityLevel(complexity)
		if audienceJSON.Valid {
			json.Unmarshal([]byte(audienceJSON.String), &rec.StudentAudience)
		}
		if objectivesJSON.Valid {
			json.Unmarshal([]byte(objectivesJSON.String), &rec.KeyLearningObjectives)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		concepts, err := s.concepts(ctx, results[i].PDBID)
		if err != nil {
			return nil, err
		}
		results[i].Concepts = concepts
	}
	return results, nil
}

// Lookup returns the record with pdbID, matched case-insensitively.
func (s *Store) Lookup(ctx context.Context, pdbID string) (types.TaggedRecord, error) {
	recs, err := s.Retrieve(ctx, QueryOptions{PDBID: pdbID, MaxResults: 1})
	if err != nil {
		return types.TaggedRecord{}, err
	}
	if len(recs) == 0 {
		return types.TaggedRecord{}, fmt.Errorf("record %s not found", strings.ToUpper(pdbID))
	}
	return recs[0], nil
}

// ConceptCounts returns the number of records per concept whose name
// contains match, case-insensitively, most frequent first.
func (s *Store) ConceptCounts(ctx context.Context, match string) ([]types.ConceptCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT concept, count(*) AS n FROM record_concepts
		 WHERE instr(lower(concept), lower(?)) > 0
		 GROUP BY concept ORDER BY n DESC, concept`, match)
	if err != nil {
		return nil, fmt.Errorf("querying concept counts: %w", err)
	}
	defer rows.Close()

	var out []types.ConceptCount
	for rows.Next() {
		var cc types.ConceptCount
		if err := rows.Scan(&cc.Name, &cc.Frequency); err != nil {
			return nil, fmt.Errorf("scanning concept count: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (s *Store) concepts(ctx context.Context, pdbID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT concept FROM record_concepts WHERE pdb_id = ? ORDER BY concept`, pdbID)
	if err != nil {
		return nil, fmt.Errorf("querying concepts of %s: %w", pdbID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
