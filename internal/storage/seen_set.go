// Package storage persists the set of already-delivered article fingerprints
// across runs.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// seenFile is the on-disk layout: the full fingerprint list plus the last
// commit time, overwritten wholesale on every flush.
type seenFile struct {
	SeenURLs  []string  `json:"seen_urls"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeenSet tracks delivered article fingerprints. Within a run it is
// append-only; Flush commits the whole set after a confirmed dispatch.
// Concurrent fetchers only ever call Contains; Add and Flush run in the
// controller's single-threaded commit phase, so no lock is needed.
type SeenSet struct {
	filePath string
	log      *slog.Logger
	seen     map[string]struct{}
}

// Load reads the persisted fingerprints. A missing, unreadable or malformed
// file yields an empty set, never an error: corrupt dedup state must not
// block news delivery.
func Load(filePath string, log *slog.Logger) *SeenSet {
	ss := &SeenSet{
		filePath: filePath,
		log:      log,
		seen:     make(map[string]struct{}),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("seen file unreadable, starting empty", "path", filePath, "error", err)
		}
		return ss
	}

	var sf seenFile
	if err := json.Unmarshal(data, &sf); err != nil {
		log.Warn("seen file malformed, starting empty", "path", filePath, "error", err)
		return ss
	}

	for _, fp := range sf.SeenURLs {
		ss.seen[fp] = struct{}{}
	}
	log.Debug("seen set loaded", "count", len(ss.seen), "path", filePath)
	return ss
}

// Contains reports whether a fingerprint was already delivered.
func (ss *SeenSet) Contains(fingerprint string) bool {
	_, ok := ss.seen[fingerprint]
	return ok
}

// Add records a fingerprint in memory. It is not persisted until Flush.
func (ss *SeenSet) Add(fingerprint string) {
	ss.seen[fingerprint] = struct{}{}
}

// Len returns the number of tracked fingerprints.
func (ss *SeenSet) Len() int {
	return len(ss.seen)
}

// Flush overwrites the persisted set. The write goes to a temp file in the
// same directory followed by a rename, so a crash mid-write can never leave
// a half-written file behind for the next run to load.
func (ss *SeenSet) Flush() error {
	urls := make([]string, 0, len(ss.seen))
	for fp := range ss.seen {
		urls = append(urls, fp)
	}

	data, err := json.MarshalIndent(seenFile{SeenURLs: urls, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen set: %w", err)
	}

	dir := filepath.Dir(ss.filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(ss.filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp seen file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp seen file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp seen file: %w", err)
	}

	if err := os.Rename(tmpName, ss.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit seen file: %w", err)
	}

	ss.log.Debug("seen set flushed", "count", len(urls), "path", ss.filePath)
	return nil
}
