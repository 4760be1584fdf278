package normalize

import (
	"encoding/json"
	"time"

	"marketterminal/internal/market"
)

const (
	// SummaryLimit is the maximum summary length in characters before the ellipsis.
	SummaryLimit = 220
	ellipsis     = "…"

	vendorTimeLayout  = "20060102T1504"
	displayTimeLayout = "2006-01-02 15:04"
)

// News normalizes a NEWS_SENTIMENT payload. Entries that are not objects are
// skipped; a missing feed yields an empty list.
func News(raw []byte) []market.NewsArticle {
	out := []market.NewsArticle{}
	top, ok := decodeObject(raw)
	if !ok {
		return out
	}
	var feed []json.RawMessage
	if err := json.Unmarshal(top["feed"], &feed); err != nil {
		return out
	}

	for _, entry := range feed {
		item, ok := decodeObject(entry)
		if !ok {
			continue
		}
		source, ok := item.text("source")
		if !ok || source == "" {
			source = "Unknown"
		}
		stamp, _ := item.text("time_published")
		headline, _ := item.text("title")
		summary, _ := item.text("summary")
		link, _ := item.text("url")
		label, ok := item.text("overall_sentiment_label")
		if !ok || label == "" {
			label = string(market.Neutral)
		}

		out = append(out, market.NewsArticle{
			Source:         source,
			Published:      PublishedTime(stamp),
			Headline:       headline,
			Summary:        Truncate(summary, SummaryLimit),
			URL:            link,
			SentimentLabel: label,
			Sentiment:      market.ParseSentiment(label),
		})
	}
	return out
}

// PublishedTime converts the compact YYYYMMDDTHHMMSS stamp to YYYY-MM-DD HH:MM.
// Short or malformed stamps are returned verbatim.
func PublishedTime(stamp string) string {
	if len(stamp) < len(vendorTimeLayout) {
		return stamp
	}
	t, err := time.Parse(vendorTimeLayout, stamp[:len(vendorTimeLayout)])
	if err != nil {
		return stamp
	}
	return t.Format(displayTimeLayout)
}

// Truncate cuts s to limit characters and appends an ellipsis only when it cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + ellipsis
}
