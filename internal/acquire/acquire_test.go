// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/pdb-educator/internal/httputil"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const entryDoc = `{"rcsb_id":"4HHB","struct":{"title":"THE CRYSTAL STRUCTURE OF HUMAN DEOXYHAEMOGLOBIN"},"exptl":[{"method":"X-RAY DIFFRACTION"}]}`

// entryServer serves entryDoc for 4HHB, a document without struct for
// 0BAD, and 404 for anything else. It counts requests.
func entryServer(t *testing.T, calls *int32) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if ua := r.Header.Get("User-Agent"); ua != "pdb-educator/test" {
			t.Errorf("User-Agent = %q", ua)
		}
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "4HHB":
			w.Write([]byte(entryDoc))
		case "0BAD":
			w.Write([]byte(`{"rcsb_id":"0BAD"}`))
		case "5XXX":
			w.Write([]byte(`<html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	old := entryAPIBase
	entryAPIBase = ts.URL + "/"
	t.Cleanup(func() { entryAPIBase = old })
}

func testConfig(dir string) types.AcquisitionConfig {
	return types.AcquisitionConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "pdb-educator/test"},
		InputDir:   dir,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"4HHB", "4HHB", true},
		{"4hhb", "4HHB", true},
		{"  1crn ", "1CRN", true},
		{"pdb_00004hhb", "4HHB", true},
		{"PDB_00001CRN", "1CRN", true},
		{"HHB4", "", false},
		{"4HH", "", false},
		{"4HHBB", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs("4HHB,1CRN, 2PTC\n4hhb\t\n")
	want := []string{"4HHB", "1CRN", "2PTC"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ParseIDs = %v, want %v", got, want)
	}
	if ids := ParseIDs(" , "); len(ids) != 0 {
		t.Errorf("ParseIDs(blank) = %v, want empty", ids)
	}
}

func TestReadIDs(t *testing.T) {
	dir := t.TempDir()

	results := filepath.Join(dir, "results.json")
	os.WriteFile(results, []byte(`{"query_id":"q","result_type":"entry","total_count":2,
		"result_set":[{"identifier":"4HHB","score":1},{"identifier":"1CRN","score":0.5}]}`), 0o644)
	ids, err := ReadIDs(results)
	if err != nil {
		t.Fatalf("ReadIDs(results.json): %v", err)
	}
	if strings.Join(ids, ",") != "4HHB,1CRN" {
		t.Errorf("ReadIDs(results.json) = %v", ids)
	}

	list := filepath.Join(dir, "ids.txt")
	os.WriteFile(list, []byte("4HHB,1CRN,2PTC"), 0o644)
	ids, err = ReadIDs(list)
	if err != nil {
		t.Fatalf("ReadIDs(ids.txt): %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("ReadIDs(ids.txt) = %v, want 3 ids", ids)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"items":[]}`), 0o644)
	if _, err := ReadIDs(bad); err == nil {
		t.Error("ReadIDs without result_set: expected error")
	}

	if _, err := ReadIDs(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ReadIDs(missing): expected error")
	}
}

func TestFetchEntry(t *testing.T) {
	var calls int32
	entryServer(t, &calls)
	dir := filepath.Join(t.TempDir(), "pdb_data")
	var buf bytes.Buffer

	path, skipped, err := FetchEntry(context.Background(), http.DefaultClient, "4hhb", testConfig(dir), &buf)
	if err != nil {
		t.Fatalf("FetchEntry: %v", err)
	}
	if skipped {
		t.Error("first fetch reported skipped")
	}
	if want := filepath.Join(dir, "4HHB.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if string(data) != entryDoc {
		t.Errorf("entry content = %s", data)
	}

	_, skipped, err = FetchEntry(context.Background(), http.DefaultClient, "4HHB", testConfig(dir), &buf)
	if err != nil || !skipped {
		t.Errorf("second fetch: skipped=%v err=%v, want skipped", skipped, err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
	if !strings.Contains(buf.String(), "skipped: 4HHB") {
		t.Errorf("output missing skip line:\n%s", buf.String())
	}
}

func TestFetchEntryFailures(t *testing.T) {
	var calls int32
	entryServer(t, &calls)
	dir := t.TempDir()

	tests := []struct {
		id   string
		want string
	}{
		{"not-an-id", "unrecognized PDB ID"},
		{"9ZZZ", "entry not found"},
		{"0BAD", "no struct section"},
		{"5XXX", "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, _, err := FetchEntry(context.Background(), http.DefaultClient, tt.id, testConfig(dir), &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("FetchEntry(%q) error = %v, want containing %q", tt.id, err, tt.want)
			}
		})
	}

	_, _, err := FetchEntry(context.Background(), http.DefaultClient, "9ZZZ", testConfig(dir), &bytes.Buffer{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("404 error = %v, want ErrNotFound", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed fetches left %d file(s) behind", len(entries))
	}
}

func TestFetchBatch(t *testing.T) {
	var calls int32
	entryServer(t, &calls)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "1CRN.json"), []byte(`{"struct":{}}`), 0o644)

	cfg := testConfig(dir)
	cfg.DownloadDelay = time.Millisecond
	var buf bytes.Buffer
	result := FetchBatch(context.Background(), http.DefaultClient, []string{"4HHB", "1CRN", "9ZZZ"}, cfg, &buf)

	if result.Downloaded != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 downloaded, 1 skipped, 1 failed", result)
	}
	if result.Total() != 3 || !result.HasFailures() {
		t.Errorf("Total = %d, HasFailures = %v", result.Total(), result.HasFailures())
	}
	if len(result.Paths) != 2 {
		t.Errorf("Paths = %v, want 2", result.Paths)
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 downloaded, 1 skipped, 1 failed (total: 3)") {
		t.Errorf("missing summary:\n%s", buf.String())
	}
}

func TestFetchBatchCancelled(t *testing.T) {
	var calls int32
	entryServer(t, &calls)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := FetchBatch(ctx, http.DefaultClient, []string{"4HHB", "1CRN"}, testConfig(t.TempDir()), &bytes.Buffer{})
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}
