// Package dingtalk delivers the finished digest to a DingTalk group webhook.
package dingtalk

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"aibrief/internal/news"
)

// Sender posts markdown digests to a single webhook endpoint. One attempt per
// run: a failed send is reported to the caller, which leaves the dedup state
// uncommitted so the same items go out on the next run instead.
type Sender struct {
	webhookURL string
	secret     string
	client     *http.Client
	log        *slog.Logger

	now func() time.Time // for sign tests
}

func NewSender(webhookURL, secret string, log *slog.Logger) *Sender {
	return &Sender{
		webhookURL: webhookURL,
		secret:     secret,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        log,
		now:        time.Now,
	}
}

type apiResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Send builds and delivers the digest for the given run label.
func (s *Sender) Send(ctx context.Context, items []news.Item, runLabel string) error {
	payload := map[string]interface{}{
		"msgtype": "markdown",
		"markdown": map[string]string{
			"title": "🤖 AI Daily Brief | " + runLabel,
			"text":  BuildDigest(items, runLabel),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal digest payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL+s.sign(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook error: status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode webhook response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("webhook rejected message: errcode=%d errmsg=%s", result.ErrCode, result.ErrMsg)
	}

	s.log.Info("digest delivered", "items", len(items))
	return nil
}

// sign produces the DingTalk security suffix when a secret is configured:
// timestamp in milliseconds plus an HMAC-SHA256 of "<timestamp>\n<secret>".
func (s *Sender) sign() string {
	if s.secret == "" {
		return ""
	}

	timestamp := fmt.Sprintf("%d", s.now().UnixMilli())
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(timestamp + "\n" + s.secret))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return "&timestamp=" + timestamp + "&sign=" + url.QueryEscape(signature)
}
