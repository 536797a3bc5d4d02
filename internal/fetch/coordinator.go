package fetch

import (
	"context"
	"log/slog"
	"sync"

	"aibrief/internal/news"
	"aibrief/internal/source"
)

// Coordinator runs fetches across all sources with a bounded worker pool.
// Excess sources queue behind the pool; a slow source delays completion by at
// most its own timeout.
type Coordinator struct {
	fetcher *Fetcher
	workers int
	log     *slog.Logger
}

func NewCoordinator(fetcher *Fetcher, workers int, log *slog.Logger) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{fetcher: fetcher, workers: workers, log: log}
}

// FetchAll blocks until every source has been fetched or individually failed,
// then returns the merged items. Merge order is made deterministic by
// collecting per-source results and concatenating them in descriptor order;
// no ordering among items is promised beyond that — the ranker re-sorts.
func (c *Coordinator) FetchAll(ctx context.Context, sources []source.Descriptor) []news.Item {
	results := make([][]news.Item, len(sources))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.fetcher.Fetch(ctx, sources[i])
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var merged []news.Item
	succeeded := 0
	for _, items := range results {
		if len(items) > 0 {
			succeeded++
		}
		merged = append(merged, items...)
	}

	c.log.Info("fetch round complete",
		"sources", len(sources), "sources_with_items", succeeded, "items", len(merged))
	return merged
}
