// Package fetch retrieves configured feeds and turns fresh, unseen entries
// into scored news items.
package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"aibrief/internal/metrics"
	"aibrief/internal/news"
	"aibrief/internal/source"
	"aibrief/internal/storage"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Options bound the work done per source.
type Options struct {
	Cutoff          time.Time // entries published before this are dropped
	Timeout         time.Duration
	MaxEntries      int // cap of entries examined per feed
	SummaryMaxRunes int
}

// Fetcher pulls one feed and filters its entries. It shares no mutable state
// with other fetchers; the seen set is only read.
type Fetcher struct {
	opts   Options
	scorer news.Scorer
	seen   *storage.SeenSet
	log    *slog.Logger
}

func NewFetcher(opts Options, scorer news.Scorer, seen *storage.SeenSet, log *slog.Logger) *Fetcher {
	return &Fetcher{opts: opts, scorer: scorer, seen: seen, log: log}
}

// Fetch retrieves and parses one feed. Transport and parse failures yield an
// empty result: a broken source never aborts the batch. Malformed individual
// entries are skipped without affecting the rest of the feed.
func (f *Fetcher) Fetch(ctx context.Context, src source.Descriptor) []news.Item {
	fetchCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(src.FeedURL, fetchCtx)
	if err != nil {
		f.log.Error("feed fetch failed", "source", src.Name, "url", src.FeedURL, "error", err)
		metrics.Global.IncrementSourceFailures()
		return nil
	}
	metrics.Global.IncrementSourcesFetched()

	entries := feed.Items
	if f.opts.MaxEntries > 0 && len(entries) > f.opts.MaxEntries {
		entries = entries[:f.opts.MaxEntries]
	}

	var items []news.Item
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		metrics.Global.IncrementEntriesExamined()

		item, ok := f.buildItem(src, entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	f.log.Info("source fetched", "source", src.Name, "items", len(items))
	return items
}

// buildItem applies the per-entry filters: recency, non-empty title and URL,
// and the seen-set snapshot read at fetch time.
func (f *Fetcher) buildItem(src source.Descriptor, entry *gofeed.Item) (news.Item, bool) {
	published := entryPublished(entry)
	if published.Before(f.opts.Cutoff) {
		return news.Item{}, false
	}

	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return news.Item{}, false
	}

	if f.seen.Contains(news.Fingerprint(link)) {
		f.log.Debug("already delivered, skipping", "source", src.Name, "title", title)
		metrics.Global.IncrementDuplicatesFiltered()
		return news.Item{}, false
	}

	body := entry.Description
	if body == "" {
		body = entry.Content
	}

	return news.Item{
		Title:       title,
		Summary:     news.SanitizeSummary(body, f.opts.SummaryMaxRunes),
		URL:         link,
		SourceName:  src.Name,
		PublishedAt: published,
		Category:    src.Category,
		Score:       f.scorer.Score(title, src.Keywords),
	}, true
}

// entryPublished resolves the entry timestamp: published date, else updated
// date, else now. Undated entries count as fresh rather than stale.
func entryPublished(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Now()
}
