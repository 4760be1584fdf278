package normalize

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"marketterminal/internal/market"
)

// Overview normalizes an OVERVIEW payload. The fundamentals sit at the top
// level; an empty object, as returned for unknown tickers, yields the zero value.
func Overview(raw []byte, ticker string) market.CompanyOverview {
	ov, ok := decodeObject(raw)
	if !ok || len(ov) == 0 {
		return market.CompanyOverview{}
	}

	out := market.CompanyOverview{
		Ticker:         ticker,
		Name:           ov.display("Name"),
		Exchange:       ov.display("Exchange"),
		Sector:         ov.display("Sector"),
		Industry:       ov.display("Industry"),
		MarketCap:      MarketCap(ov.display("MarketCapitalization")),
		PERatio:        ov.display("PERatio"),
		ForwardPE:      ov.display("ForwardPE"),
		EPS:            ov.display("EPS"),
		Beta:           ov.display("Beta"),
		Week52High:     ov.display("52WeekHigh"),
		Week52Low:      ov.display("52WeekLow"),
		DividendYield:  ov.display("DividendYield"),
		ProfitMargin:   ov.display("ProfitMargin"),
		ReturnOnEquity: ov.display("ReturnOnEquityTTM"),
		AnalystTarget:  ov.display("AnalystTargetPrice"),
	}
	if out.AnalystTarget != market.Sentinel {
		out.AnalystTarget += " USD"
	}
	if sym, ok := ov.text("Symbol"); ok && !isVendorSentinel(sym) {
		out.Ticker = sym
	}
	if desc, ok := ov.text("Description"); ok && !isVendorSentinel(desc) {
		out.Description = desc
	}
	return out
}

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
)

// MarketCap scales a raw capitalization to the largest unit >= 1 with two
// decimals ($2.50T, $850.12B, $3.40M); smaller values are grouped integers.
// Sentinel values map to market.Sentinel and unparseable text is returned as is.
func MarketCap(v string) string {
	if v == market.Sentinel || isVendorSentinel(v) {
		return market.Sentinel
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	switch {
	case d.GreaterThanOrEqual(trillion):
		return "$" + d.Div(trillion).StringFixed(2) + "T"
	case d.GreaterThanOrEqual(billion):
		return "$" + d.Div(billion).StringFixed(2) + "B"
	case d.GreaterThanOrEqual(million):
		return "$" + d.Div(million).StringFixed(2) + "M"
	default:
		return "$" + humanize.Comma(d.Round(0).IntPart())
	}
}
