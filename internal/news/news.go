// Package news holds the candidate article model plus the pure functions of
// the pipeline: fingerprinting, relevance scoring, summary cleanup and ranked
// selection.
package news

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"
)

// Item is one candidate article built from a single parsed feed entry.
// The URL is the sole dedup identity; title and summary may drift between
// sources carrying the same story.
type Item struct {
	Title       string
	Summary     string
	URL         string
	SourceName  string
	PublishedAt time.Time
	Category    string
	Score       float64
}

// Fingerprint returns the dedup key for a canonical article URL.
func Fingerprint(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// SelectTop sorts items by score descending and truncates to max. The sort is
// stable, so equal scores keep their arrival order and the output is
// deterministic for a given input ordering.
func SelectTop(items []Item, max int) []Item {
	selected := append([]Item(nil), items...)
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})
	if max >= 0 && len(selected) > max {
		selected = selected[:max]
	}
	return selected
}
