package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoadMissingFileReturnsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.json")
	ss := Load(path, testLogger())
	if ss.Len() != 0 {
		t.Errorf("expected empty set, got %d entries", ss.Len())
	}
}

func TestLoadMalformedFileReturnsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	ss := Load(path, testLogger())
	if ss.Len() != 0 {
		t.Errorf("corrupt file must load as empty set, got %d entries", ss.Len())
	}
}

func TestAddFlushReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.json")

	ss := Load(path, testLogger())
	ss.Add("fp-one")
	ss.Add("fp-two")
	if err := ss.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := Load(path, testLogger())
	if !reloaded.Contains("fp-one") || !reloaded.Contains("fp-two") {
		t.Errorf("fingerprints lost across reload")
	}
	if reloaded.Contains("fp-three") {
		t.Errorf("unexpected fingerprint present")
	}
}

func TestFlushOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.json")

	ss := Load(path, testLogger())
	ss.Add("a")
	if err := ss.Flush(); err != nil {
		t.Fatal(err)
	}
	ss.Add("b")
	if err := ss.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var sf seenFile
	if err := json.Unmarshal(data, &sf); err != nil {
		t.Fatalf("flushed file is not valid JSON: %v", err)
	}
	if len(sf.SeenURLs) != 2 {
		t.Errorf("expected 2 fingerprints on disk, got %d", len(sf.SeenURLs))
	}
	if sf.UpdatedAt.IsZero() {
		t.Errorf("updated_at not recorded")
	}
}

func TestFlushLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sent_urls.json")

	ss := Load(path, testLogger())
	ss.Add("a")
	if err := ss.Flush(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only the seen file, found %d entries", len(entries))
	}
}

func TestContainsDuringRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.json")
	ss := Load(path, testLogger())
	ss.Add("fp")
	if !ss.Contains("fp") {
		t.Errorf("in-memory add not visible to Contains")
	}
}
