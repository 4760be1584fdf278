package market

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateLayout is the vendor's per-day key format.
const DateLayout = "2006-01-02"

// SeriesPoint is one daily bar. A field that failed to coerce is null;
// the rest of the row is still usable.
type SeriesPoint struct {
	Date   time.Time  `json:"date"`
	Open   null.Float `json:"open"`
	High   null.Float `json:"high"`
	Low    null.Float `json:"low"`
	Close  null.Float `json:"close"`
	Volume null.Int   `json:"volume"`
}

// Up reports close >= open. Rows missing either value are not up.
func (p SeriesPoint) Up() bool {
	return p.Open.Valid && p.Close.Valid && p.Close.Float64 >= p.Open.Float64
}

// TimeSeries is the daily history of one ticker, strictly ascending by date.
// Gaps for market closures are expected.
type TimeSeries struct {
	Ticker string        `json:"ticker"`
	Points []SeriesPoint `json:"points"`
}

// Len returns the number of points.
func (s TimeSeries) Len() int { return len(s.Points) }

// Empty reports whether the series carries no points.
func (s TimeSeries) Empty() bool { return len(s.Points) == 0 }

// Last returns the most recent n points in chronological order.
// A shorter series is returned whole.
func (s TimeSeries) Last(n int) []SeriesPoint {
	if n <= 0 {
		return nil
	}
	if n >= len(s.Points) {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}
