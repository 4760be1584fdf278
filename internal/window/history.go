package window

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"marketterminal/internal/market"
)

// HistoryDays is the depth of the price history table.
const HistoryDays = 60

// HistoryRow is one formatted line of the price history table.
type HistoryRow struct {
	Date   string `json:"date"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
	Up     bool   `json:"up"`
}

// History returns the last n points newest first, formatted for display.
func History(series market.TimeSeries, n int) []HistoryRow {
	pts := series.Last(n)
	out := make([]HistoryRow, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		out = append(out, HistoryRow{
			Date:   p.Date.Format(market.DateLayout),
			Open:   price(p.Open),
			High:   price(p.High),
			Low:    price(p.Low),
			Close:  price(p.Close),
			Volume: volume(p.Volume),
			Up:     p.Up(),
		})
	}
	return out
}

func price(f null.Float) string {
	if !f.Valid {
		return market.Sentinel
	}
	return strconv.FormatFloat(f.Float64, 'f', 2, 64)
}

func volume(v null.Int) string {
	if !v.Valid {
		return market.Sentinel
	}
	return humanize.Comma(v.Int64)
}
