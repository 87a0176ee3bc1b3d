// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads PDB entry documents from the RCSB Data API
// into the pipeline's input directory, one <ID>.json file per entry.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/pdb-educator/internal/fileutil"
	"github.com/pdiddy/pdb-educator/internal/httputil"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// ErrNotFound is returned when the Data API has no entry for an ID.
var ErrNotFound = errors.New("entry not found")

// BatchResult holds the outcome of a batch download.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Paths      []string
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any entry failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchEntry downloads one entry document. An existing file is left alone
// and reported as skipped.
func FetchEntry(ctx context.Context, client *http.Client, identifier string, cfg types.AcquisitionConfig, w io.Writer) (path string, skipped bool, err error) {
	id, ok := Normalize(identifier)
	if !ok {
		return "", false, fmt.Errorf("unrecognized PDB ID: %q", identifier)
	}

	path = filepath.Join(cfg.InputDir, id+".json")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", id)
		return path, true, nil
	}

	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", cfg.InputDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", id)
	if err := downloadEntry(ctx, client, EntryURL(id), path, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", id, err)
	}
	return path, false, nil
}

// FetchBatch downloads each identifier in turn, printing per-entry status
// and a summary line. It continues after individual failures and waits
// cfg.DownloadDelay between consecutive requests.
func FetchBatch(ctx context.Context, client *http.Client, identifiers []string, cfg types.AcquisitionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, id := range identifiers {
		if i > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.DownloadDelay):
			}
		}
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, ctx.Err())
			result.Failed++
			continue
		}
		path, wasSkipped, err := FetchEntry(ctx, client, id, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Paths = append(result.Paths, path)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadEntry fetches url, checks that the body is a JSON document with
// a struct section, and writes it to destPath through a temporary file.
func downloadEntry(ctx context.Context, client *http.Client, url, destPath string, cfg types.AcquisitionConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return errors.New("response is not valid JSON")
	}
	if !gjson.GetBytes(body, "struct").Exists() {
		return errors.New("response has no struct section")
	}

	return fileutil.WriteAtomic(destPath, body, 0o644)
}
