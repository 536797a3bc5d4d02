package dingtalk

import (
	"fmt"
	"strings"

	"aibrief/internal/news"
)

var categoryEmoji = map[string]string{
	"ai_research": "🔬",
	"ai_funding":  "💰",
	"ai_compute":  "⚡",
	"ai_data":     "📊",
	"ai_product":  "🚀",
	"general":     "📰",
}

var categoryNames = map[string]string{
	"ai_research": "Research",
	"ai_funding":  "Funding",
	"ai_compute":  "Compute",
	"ai_data":     "Data",
	"ai_product":  "Products",
	"general":     "General",
}

func emojiFor(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return "📰"
}

func nameFor(category string) string {
	if n, ok := categoryNames[category]; ok {
		return n
	}
	return "General"
}

// BuildDigest renders the ordered item list as a DingTalk markdown message:
// header, per-category counts, then one block per item in rank order.
func BuildDigest(items []news.Item, runLabel string) string {
	var b strings.Builder

	b.WriteString("## 🤖 AI Daily Brief\n")
	b.WriteString("### 📅 " + runLabel + "\n\n")
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("📈 **%d stories selected today**\n\n", len(items)))

	// Category counts, in rank order of first appearance.
	counts := map[string]int{}
	var order []string
	for _, item := range items {
		if counts[item.Category] == 0 {
			order = append(order, item.Category)
		}
		counts[item.Category]++
	}
	var stats []string
	for _, category := range order {
		stats = append(stats, fmt.Sprintf("%s %s: %d", emojiFor(category), nameFor(category), counts[category]))
	}
	b.WriteString(strings.Join(stats, " | "))
	b.WriteString("\n\n---\n\n")

	b.WriteString("### 📰 **Top stories**\n\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("#### %s **%s**\n", emojiFor(item.Category), item.Title))
		if item.Summary != "" {
			b.WriteString("> " + item.Summary + "\n")
		}
		b.WriteString(fmt.Sprintf("> 📍 **%s** | 🔗 [Read more](%s)\n\n", item.SourceName, item.URL))
	}

	b.WriteString("---\n\n")
	b.WriteString("🤖 *Generated automatically from configured AI news feeds*\n")

	return b.String()
}
