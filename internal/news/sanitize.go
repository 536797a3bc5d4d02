package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeSummary strips markup from a feed entry body, collapses whitespace
// and truncates to maxRunes. Feed descriptions routinely embed HTML; parsing
// them instead of regex-stripping survives nested tags and entities.
func SanitizeSummary(raw string, maxRunes int) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if strings.ContainsAny(text, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if maxRunes > 0 && len(runes) > maxRunes {
		text = string(runes[:maxRunes]) + "..."
	}
	return text
}
