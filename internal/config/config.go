// Package config holds the immutable run configuration. Every component
// receives the loaded value at construction; nothing mutates it afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// DingTalk webhook settings
	WebhookURL    string
	WebhookSecret string // optional, enables request signing

	// Gemini settings (optional summarization hook)
	GeminiAPIKey       string
	MaxSummaryRequests int           // cap of hook calls per run (0 = hook disabled)
	SummaryCallDelay   time.Duration // fixed pause between hook calls

	// Feed settings
	SourcesConfigPath   string
	MaxNews             int
	NewsMaxAge          time.Duration
	MaxEntriesPerSource int
	FetchConcurrency    int
	FetchTimeout        time.Duration

	// Scoring settings. The weights are configuration because the numbers
	// drifted across earlier revisions of this pipeline and no single value
	// was canonical.
	ScoreBase           float64
	ScoreKeywordBonus   float64
	ScoreHighValueBonus float64
	SummaryMaxRunes     int

	// Dedup state
	SeenFilePath string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		SourcesConfigPath:   "configs/sources.yaml",
		MaxNews:             10,
		NewsMaxAge:          24 * time.Hour,
		MaxEntriesPerSource: 50,
		FetchConcurrency:    4,
		FetchTimeout:        15 * time.Second,
		ScoreBase:           1.0,
		ScoreKeywordBonus:   2.0,
		ScoreHighValueBonus: 3.0,
		SummaryMaxRunes:     240,
		MaxSummaryRequests:  3,
		SummaryCallDelay:    500 * time.Millisecond,
	}

	cfg.WebhookURL = os.Getenv("DINGTALK_WEBHOOK")
	cfg.WebhookSecret = os.Getenv("DINGTALK_SECRET")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.SeenFilePath = getEnvOrDefault("SEEN_FILE_PATH", "sent_urls.json")

	cfg.MaxNews = getEnvIntOrDefault("MAX_NEWS", cfg.MaxNews)
	cfg.MaxEntriesPerSource = getEnvIntOrDefault("MAX_ENTRIES_PER_SOURCE", cfg.MaxEntriesPerSource)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.MaxSummaryRequests = getEnvIntOrDefault("MAX_SUMMARY_REQUESTS", cfg.MaxSummaryRequests)
	cfg.SummaryMaxRunes = getEnvIntOrDefault("SUMMARY_MAX_RUNES", cfg.SummaryMaxRunes)

	if v := os.Getenv("NEWS_MAX_AGE_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.NewsMaxAge = time.Duration(val) * time.Hour
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.FetchTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("SUMMARY_CALL_DELAY_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.SummaryCallDelay = time.Duration(val) * time.Millisecond
		}
	}

	cfg.ScoreBase = getEnvFloatOrDefault("SCORE_BASE", cfg.ScoreBase)
	cfg.ScoreKeywordBonus = getEnvFloatOrDefault("SCORE_KEYWORD_BONUS", cfg.ScoreKeywordBonus)
	cfg.ScoreHighValueBonus = getEnvFloatOrDefault("SCORE_HIGH_VALUE_BONUS", cfg.ScoreHighValueBonus)

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil && floatValue >= 0 {
			return floatValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("DINGTALK_WEBHOOK is required")
	}
	if c.MaxNews <= 0 {
		return fmt.Errorf("MAX_NEWS must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	return nil
}
