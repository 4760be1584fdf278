// Package cache holds the most recently fetched daily series.
package cache

import (
	"sync/atomic"

	"marketterminal/internal/market"
)

// entry is swapped in whole so readers never see a ticker paired with
// another ticker's points.
type entry struct {
	ticker string
	series market.TimeSeries
}

// Series is a single-slot cache. A Store replaces the previous content
// wholesale; Load never blocks and does not check which ticker is asked for.
type Series struct {
	slot atomic.Pointer[entry]
}

// Store replaces the cached series.
func (c *Series) Store(ticker string, s market.TimeSeries) {
	c.slot.Store(&entry{ticker: ticker, series: s})
}

// Load returns the cached series and the ticker it belongs to.
// ok is false until the first Store.
func (c *Series) Load() (ticker string, s market.TimeSeries, ok bool) {
	e := c.slot.Load()
	if e == nil {
		return "", market.TimeSeries{}, false
	}
	return e.ticker, e.series, true
}
