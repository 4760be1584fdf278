package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"marketterminal/internal/market"
)

const seriesContainer = "Time Series (Daily)"

const (
	keyBarOpen   = "1. open"
	keyBarHigh   = "2. high"
	keyBarLow    = "3. low"
	keyBarClose  = "4. close"
	keyBarVolume = "5. volume"
)

// Series normalizes a TIME_SERIES_DAILY payload into an ascending series.
// The vendor sends newest first; order is never assumed. Records whose date
// cannot be parsed, or that are not objects, are dropped. A field that fails
// to coerce is null on an otherwise kept row.
func Series(raw []byte, ticker string) market.TimeSeries {
	out := market.TimeSeries{Ticker: ticker}
	top, ok := decodeObject(raw)
	if !ok {
		return out
	}
	days, ok := top.child(seriesContainer)
	if !ok {
		return out
	}

	points := make([]market.SeriesPoint, 0, len(days))
	for key, rec := range days {
		date, err := time.Parse(market.DateLayout, strings.TrimSpace(key))
		if err != nil {
			continue
		}
		bar, ok := decodeObject(rec)
		if !ok {
			continue
		}
		points = append(points, market.SeriesPoint{
			Date:   date,
			Open:   bar.nullFloat(keyBarOpen),
			High:   bar.nullFloat(keyBarHigh),
			Low:    bar.nullFloat(keyBarLow),
			Close:  bar.nullFloat(keyBarClose),
			Volume: bar.nullInt(keyBarVolume),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	// keys differing only in whitespace can collide on the same day
	uniq := points[:0]
	for _, p := range points {
		if n := len(uniq); n > 0 && uniq[n-1].Date.Equal(p.Date) {
			continue
		}
		uniq = append(uniq, p)
	}
	out.Points = uniq
	return out
}

// nullFloat coerces key to a finite real, or null.
func (o object) nullFloat(key string) null.Float {
	s, ok := o.text(key)
	if !ok {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// nullInt coerces key to an integer, accepting whole-valued reals, or null.
func (o object) nullInt(key string) null.Int {
	s, ok := o.text(key)
	if !ok {
		return null.Int{}
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return null.IntFrom(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return null.Int{}
	}
	return null.IntFrom(int64(f))
}
