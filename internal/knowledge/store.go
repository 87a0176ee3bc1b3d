// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists tagged records in a SQLite database and
// answers concept, method, complexity, and title queries over them.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdb-educator/internal/tagger"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "educator.db"

	defaultMaxResults = 20
)

// Store manages the knowledge base SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the database at <cfg.Dir>/index/educator.db
// and creates the schema if it does not exist.
func NewStore(cfg types.KnowledgeBaseConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path of a store rooted at dir.
func Path(dir string) string {
	return filepath.Join(dir, indexDir, dbFile)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			rule_set TEXT NOT NULL,
			records INTEGER NOT NULL,
			concepts INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pdb_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			complexity TEXT NOT NULL,
			method TEXT,
			audience TEXT,
			objectives TEXT,
			run_id TEXT REFERENCES runs(id)
		)`,
		`CREATE TABLE IF NOT EXISTS record_concepts (
			pdb_id TEXT NOT NULL REFERENCES records(pdb_id) ON DELETE CASCADE,
			concept TEXT NOT NULL,
			PRIMARY KEY (pdb_id, concept)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_record_concepts_concept ON record_concepts(concept)`,
		`CREATE INDEX IF NOT EXISTS idx_records_complexity ON records(complexity)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE records_fts USING fts5(title, content=records, content_rowid=rowid)`,
		`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
			INSERT INTO records_fts(rowid, title) VALUES (new.rowid, new.title);
		END`,
		`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
			INSERT INTO records_fts(records_fts, rowid, title) VALUES('delete', old.rowid, old.title);
		END`,
		`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
			INSERT INTO records_fts(records_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			INSERT INTO records_fts(rowid, title) VALUES (new.rowid, new.title);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingest.
type IngestSummary struct {
	Indexed  int
	Removed  int
	Concepts int
}

// Ingest replaces the stored record set with records in one transaction
// and logs the run under runID.
func (s *Store) Ingest(ctx context.Context, runID string, records []types.TaggedRecord) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&summary.Removed); err != nil {
		return summary, fmt.Errorf("counting records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return summary, fmt.Errorf("clearing records: %w", err)
	}

	distinct := map[string]bool{}
	for _, r := range records {
		for _, c := range r.Concepts {
			distinct[c] = true
		}
	}
	summary.Concepts = len(distinct)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, rule_set, records, concepts) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET records=excluded.records, concepts=excluded.concepts`,
		runID, time.Now().UTC().Format(time.RFC3339), tagger.RuleSetVersion, len(records), summary.Concepts,
	); err != nil {
		return summary, fmt.Errorf("recording run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO records (pdb_id, title, complexity, method, audience, objectives, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	conceptStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO record_concepts (pdb_id, concept) VALUES (?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing concept insert: %w", err)
	}
	defer conceptStmt.Close()

	for _, r := range records {
		audienceJSON, _ := json.Marshal(r.StudentAudience)
		objectivesJSON, _ := json.Marshal(r.KeyLearningObjectives)
		if _, err := recStmt.ExecContext(ctx,
			r.PDBID, r.Title, string(r.ComplexityLevel), methodOf(r),
			string(audienceJSON), string(objectivesJSON), runID,
		); err != nil {
			return summary, fmt.Errorf("inserting record %s: %w", r.PDBID, err)
		}
		for _, c := range r.Concepts {
			if _, err := conceptStmt.ExecContext(ctx, r.PDBID, c); err != nil {
				return summary, fmt.Errorf("inserting concept %q for %s: %w", c, r.PDBID, err)
			}
		}
		summary.Indexed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing ingest: %w", err)
	}
	return summary, nil
}

// methodOf returns the experimental method concept carried by r, if any.
func methodOf(r types.TaggedRecord) string {
	for _, m := range tagger.MethodConcepts {
		if r.HasConcept(m) {
			return m
		}
	}
	return ""
}

// Stats summarizes the stored record set.
type Stats struct {
	Records    int
	Concepts   int
	Complexity map[string]int
	Methods    map[string]int
	LastRun    *Run
}

// Run describes one logged ingest.
type Run struct {
	ID        string
	StartedAt time.Time
	RuleSet   string
	Records   int
	Concepts  int
}

// Stats returns record, concept, complexity, and method counts and the
// most recent run.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Complexity: map[string]int{}, Methods: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&st.Records); err != nil {
		return st, fmt.Errorf("counting records: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(DISTINCT concept) FROM record_concepts`).Scan(&st.Concepts); err != nil {
		return st, fmt.Errorf("counting concepts: %w", err)
	}
	if err := s.groupCounts(ctx, `SELECT complexity, count(*) FROM records GROUP BY complexity`, st.Complexity); err != nil {
		return st, err
	}
	if err := s.groupCounts(ctx, `SELECT method, count(*) FROM records WHERE method != '' GROUP BY method`, st.Methods); err != nil {
		return st, err
	}

	var (
		run     Run
		started string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, rule_set, records, concepts FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &started, &run.RuleSet, &run.Records, &run.Concepts)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return st, fmt.Errorf("reading last run: %w", err)
	default:
		run.StartedAt, _ = time.Parse(time.RFC3339, started)
		st.LastRun = &run
	}
	return st, nil
}

func (s *Store) groupCounts(ctx context.Context, query string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scanning counts: %w", err)
		}
		into[strings.TrimSpace(key)] = count
	}
	return rows.Err()
}
