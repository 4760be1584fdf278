package normalize

import "marketterminal/internal/market"

const quoteContainer = "Global Quote"

// vendor keys are numbered positionally
const (
	keySymbol        = "01. symbol"
	keyOpen          = "02. open"
	keyHigh          = "03. high"
	keyLow           = "04. low"
	keyPrice         = "05. price"
	keyVolume        = "06. volume"
	keyPreviousClose = "08. previous close"
	keyChange        = "09. change"
	keyChangePercent = "10. change percent"
)

// Quote normalizes a GLOBAL_QUOTE payload. ticker is used when the payload
// does not name its symbol. A missing or empty container yields the zero Quote.
func Quote(raw []byte, ticker string) market.Quote {
	top, ok := decodeObject(raw)
	if !ok {
		return market.Quote{}
	}
	gq, ok := top.child(quoteContainer)
	if !ok || len(gq) == 0 {
		return market.Quote{}
	}

	q := market.Quote{
		Ticker:        ticker,
		Price:         gq.display(keyPrice),
		Change:        gq.display(keyChange),
		ChangePercent: gq.display(keyChangePercent),
		Open:          gq.display(keyOpen),
		High:          gq.display(keyHigh),
		Low:           gq.display(keyLow),
		PreviousClose: gq.display(keyPreviousClose),
		Volume:        gq.display(keyVolume),
	}
	if sym, ok := gq.text(keySymbol); ok && !isVendorSentinel(sym) {
		q.Ticker = sym
	}
	q.Direction = market.DirectionOf(q.Change)
	return q
}
