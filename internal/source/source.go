// Package source loads the configured feed list.
package source

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Descriptor is one configured feed. Descriptors are built once at load time
// and never mutated afterwards; the category tag is attached here, not
// patched in later by the fetch stage.
type Descriptor struct {
	Name     string
	FeedURL  string
	Category string
	Keywords []string
}

// sourcesConfig is the YAML layout: feeds grouped by category.
//
// sources:
//   ai_research:
//     - name: OpenAI Blog
//       url: https://openai.com/news/rss.xml
//       keywords: [gpt, sora]
type sourcesConfig struct {
	Sources map[string][]sourceEntry `yaml:"sources"`
}

type sourceEntry struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
}

// Load reads the source list from a YAML file and flattens it into
// per-category descriptors. Category iteration order is sorted so the
// resulting slice is deterministic for a given file.
func Load(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cfg sourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}

	categories := make([]string, 0, len(cfg.Sources))
	for category := range cfg.Sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var descriptors []Descriptor
	for _, category := range categories {
		for _, entry := range cfg.Sources[category] {
			if entry.Name == "" || entry.URL == "" {
				return nil, fmt.Errorf("source in category %q is missing name or url", category)
			}
			descriptors = append(descriptors, Descriptor{
				Name:     entry.Name,
				FeedURL:  entry.URL,
				Category: category,
				Keywords: append([]string(nil), entry.Keywords...),
			})
		}
	}

	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no sources configured in %s", path)
	}
	return descriptors, nil
}
