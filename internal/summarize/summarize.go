// Package summarize is the optional per-item rewrite hook: it asks Gemini to
// condense an extracted feed summary. Every failure is recoverable — the
// caller keeps the original summary.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrBudgetExhausted is returned once the per-run request cap is reached.
var ErrBudgetExhausted = errors.New("summarize: request budget exhausted")

const model = "gemini-1.5-flash"

// Client wraps the Gemini API with a per-run request budget and a fixed
// inter-call delay. Calls are strictly sequential; the pipeline never
// parallelizes hook calls to respect the external service's rate limits.
type Client struct {
	client *genai.Client
	log    *slog.Logger

	maxRequests int
	used        int
	delay       time.Duration
}

func NewClient(ctx context.Context, apiKey string, maxRequests int, delay time.Duration, log *slog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:      client,
		log:         log,
		maxRequests: maxRequests,
		delay:       delay,
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Rewrite returns a condensed replacement for an item's summary. On any
// failure the caller must keep the original text.
func (c *Client) Rewrite(ctx context.Context, title, summary string) (string, error) {
	if c.maxRequests > 0 && c.used >= c.maxRequests {
		return "", ErrBudgetExhausted
	}
	if c.used > 0 && c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.used++

	prompt := fmt.Sprintf(`Rewrite this news summary in at most two short sentences.
Keep product, company and person names unchanged. Reply with the rewritten text only, no preamble.

Title: %s
Summary: %s`, title, summary)

	gm := c.client.GenerativeModel(model)
	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("blank gemini response")
	}

	c.log.Debug("summary rewritten", "title", title, "used", c.used, "max", c.maxRequests)
	return text, nil
}
