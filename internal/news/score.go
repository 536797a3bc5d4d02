package news

import "strings"

// highValueTerms are matched against every title regardless of source:
// flagship AI vendors and products, funding-round language, and
// infrastructure/chip terms.
var highValueTerms = []string{
	"openai",
	"anthropic",
	"claude",
	"gpt-5",
	"gpt-4",
	"gemini",
	"sora",
	"deepmind",
	"llama",
	"mistral",
	"nvidia",
	"gpu",
	"tpu",
	"ai chip",
	"funding",
	"series a",
	"series b",
	"series c",
	"raises",
	"valuation",
	"data center",
	"inference",
	"foundation model",
	"world model",
}

// Scorer computes topical relevance from a title. Matching is lower-cased
// substring containment rather than word-boundary tokenization, so "gpt-4"
// also hits inside "gpt-4o" — recall over precision. Bonuses are additive
// and uncapped: the score is a monotonic relevance signal, not a probability.
type Scorer struct {
	Base           float64
	KeywordBonus   float64
	HighValueBonus float64
}

// Score returns the relevance of a title given the source's keyword list.
func (s Scorer) Score(title string, sourceKeywords []string) float64 {
	score := s.Base
	titleLower := strings.ToLower(title)

	for _, kw := range sourceKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(titleLower, kw) {
			score += s.KeywordBonus
		}
	}

	for _, term := range highValueTerms {
		if strings.Contains(titleLower, term) {
			score += s.HighValueBonus
		}
	}

	return score
}
