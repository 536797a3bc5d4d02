// Package app orchestrates one pipeline run: fetch, select, transform,
// dispatch, commit. It is the only component with cross-run side effects.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aibrief/internal/config"
	"aibrief/internal/dingtalk"
	"aibrief/internal/fetch"
	"aibrief/internal/metrics"
	"aibrief/internal/news"
	"aibrief/internal/source"
	"aibrief/internal/storage"
	"aibrief/internal/summarize"
)

// State tracks where the controller is in a run. The only terminal states
// are StateDone and StateFailed.
type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateSelecting    State = "selecting"
	StateTransforming State = "transforming"
	StateDispatching  State = "dispatching"
	StateCommitting   State = "committing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Coordinator runs the concurrent fetch round. Implemented by
// fetch.Coordinator; tests inject fakes.
type Coordinator interface {
	FetchAll(ctx context.Context, sources []source.Descriptor) []news.Item
}

// Dispatcher delivers the finished digest. Implemented by dingtalk.Sender;
// tests inject fakes.
type Dispatcher interface {
	Send(ctx context.Context, items []news.Item, runLabel string) error
}

// Summarizer is the optional per-item rewrite hook. A failed call leaves the
// item's summary untouched.
type Summarizer interface {
	Rewrite(ctx context.Context, title, summary string) (string, error)
}

// Controller drives the run state machine. The seen set is only mutated in
// the commit phase, after the dispatcher confirmed delivery.
type Controller struct {
	cfg         *config.Config
	log         *slog.Logger
	sources     []source.Descriptor
	seen        *storage.SeenSet
	coordinator Coordinator
	dispatcher  Dispatcher
	summarizer  Summarizer // nil disables the transform phase

	state State
	now   func() time.Time
}

func NewController(
	cfg *config.Config,
	log *slog.Logger,
	sources []source.Descriptor,
	seen *storage.SeenSet,
	coordinator Coordinator,
	dispatcher Dispatcher,
	summarizer Summarizer,
) *Controller {
	return &Controller{
		cfg:         cfg,
		log:         log,
		sources:     sources,
		seen:        seen,
		coordinator: coordinator,
		dispatcher:  dispatcher,
		summarizer:  summarizer,
		state:       StateIdle,
		now:         time.Now,
	}
}

// State returns the controller's current phase.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) transition(next State) {
	c.log.Debug("run state", "from", c.state, "to", next)
	c.state = next
}

// Run executes one full pipeline pass and returns an error for any outcome
// that must make the process exit non-zero.
func (c *Controller) Run(ctx context.Context) error {
	started := c.now()

	c.transition(StateFetching)
	merged := c.coordinator.FetchAll(ctx, c.sources)
	metrics.Global.AddItemsFetched(len(merged))
	if len(merged) == 0 {
		c.transition(StateFailed)
		return fmt.Errorf("no items fetched from any source")
	}

	c.transition(StateSelecting)
	selected := news.SelectTop(merged, c.cfg.MaxNews)
	metrics.Global.SetItemsSelected(len(selected))
	c.log.Info("items selected", "fetched", len(merged), "selected", len(selected))

	if c.summarizer != nil {
		c.transition(StateTransforming)
		c.transform(ctx, selected)
	}

	c.transition(StateDispatching)
	runLabel := c.now().Format("2006.01.02")
	if err := c.dispatcher.Send(ctx, selected, runLabel); err != nil {
		c.transition(StateFailed)
		return fmt.Errorf("dispatch digest: %w", err)
	}
	metrics.Global.IncrementDigestsSent()

	c.transition(StateCommitting)
	for _, item := range selected {
		c.seen.Add(news.Fingerprint(item.URL))
	}
	if err := c.seen.Flush(); err != nil {
		// The digest went out; losing the commit only risks a repeat next
		// run, but the process must still report failure.
		c.transition(StateFailed)
		return fmt.Errorf("commit seen set: %w", err)
	}

	c.transition(StateDone)
	metrics.Global.RecordRun(c.now().Sub(started))
	c.log.Info("run complete", "selected", len(selected), "duration", c.now().Sub(started))
	return nil
}

// transform applies the rewrite hook to each selected item in rank order,
// one call at a time. Hook failures fall back to the extracted summary.
func (c *Controller) transform(ctx context.Context, items []news.Item) {
	for i := range items {
		rewritten, err := c.summarizer.Rewrite(ctx, items[i].Title, items[i].Summary)
		if err != nil {
			c.log.Warn("summary rewrite failed, keeping original",
				"title", items[i].Title, "error", err)
			continue
		}
		items[i].Summary = rewritten
	}
}

// Run wires the production components from configuration and executes one
// pipeline pass.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	sources, err := source.Load(cfg.SourcesConfigPath)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}

	seen := storage.Load(cfg.SeenFilePath, log)

	scorer := news.Scorer{
		Base:           cfg.ScoreBase,
		KeywordBonus:   cfg.ScoreKeywordBonus,
		HighValueBonus: cfg.ScoreHighValueBonus,
	}
	fetcher := fetch.NewFetcher(fetch.Options{
		Cutoff:          time.Now().Add(-cfg.NewsMaxAge),
		Timeout:         cfg.FetchTimeout,
		MaxEntries:      cfg.MaxEntriesPerSource,
		SummaryMaxRunes: cfg.SummaryMaxRunes,
	}, scorer, seen, log)
	coordinator := fetch.NewCoordinator(fetcher, cfg.FetchConcurrency, log)

	dispatcher := dingtalk.NewSender(cfg.WebhookURL, cfg.WebhookSecret, log)

	var summarizer Summarizer
	if cfg.GeminiAPIKey != "" && cfg.MaxSummaryRequests > 0 {
		client, err := summarize.NewClient(ctx, cfg.GeminiAPIKey, cfg.MaxSummaryRequests, cfg.SummaryCallDelay, log)
		if err != nil {
			log.Warn("summarization hook unavailable, continuing without it", "error", err)
		} else {
			defer client.Close()
			summarizer = client
		}
	}

	controller := NewController(cfg, log, sources, seen, coordinator, dispatcher, summarizer)
	if err := controller.Run(ctx); err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	return nil
}
