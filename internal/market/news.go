package market

// Sentiment is the vendor's overall sentiment classification.
type Sentiment string

const (
	Bullish         Sentiment = "Bullish"
	SomewhatBullish Sentiment = "Somewhat-Bullish"
	Neutral         Sentiment = "Neutral"
	SomewhatBearish Sentiment = "Somewhat-Bearish"
	Bearish         Sentiment = "Bearish"
)

// ParseSentiment maps a vendor label to a Sentiment. Unrecognized labels are Neutral.
func ParseSentiment(label string) Sentiment {
	switch s := Sentiment(label); s {
	case Bullish, SomewhatBullish, Neutral, SomewhatBearish, Bearish:
		return s
	default:
		return Neutral
	}
}

// Tone is the color class of a sentiment.
type Tone string

const (
	Positive Tone = "positive"
	Flat     Tone = "neutral"
	Negative Tone = "negative"
)

// Tone groups the five sentiments into three colors.
func (s Sentiment) Tone() Tone {
	switch s {
	case Bullish, SomewhatBullish:
		return Positive
	case SomewhatBearish, Bearish:
		return Negative
	default:
		return Flat
	}
}

// NewsArticle is one normalized news feed entry.
// SentimentLabel keeps the vendor text for display; Sentiment is only for coloring.
type NewsArticle struct {
	Source         string    `json:"source"`
	Published      string    `json:"published"`
	Headline       string    `json:"headline"`
	Summary        string    `json:"summary"`
	URL            string    `json:"url,omitempty"`
	SentimentLabel string    `json:"sentiment_label"`
	Sentiment      Sentiment `json:"sentiment"`
}
