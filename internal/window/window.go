// Package window derives chart-ready slices from a cached daily series.
// Nothing here touches the network; every call is a pure function of its input.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"marketterminal/internal/market"
)

var (
	ErrUnknownRange = errors.New("window: unknown range")
	ErrUnknownMode  = errors.New("window: unknown chart mode")
)

// RangeCode is a display window counted in trading days, not calendar days.
type RangeCode string

const (
	Range1M RangeCode = "1M"
	Range3M RangeCode = "3M"
	Range6M RangeCode = "6M"
	Range1Y RangeCode = "1Y"
)

// DefaultRange is the range shown before the user picks one.
const DefaultRange = Range3M

var tradingDays = map[RangeCode]int{
	Range1M: 21,
	Range3M: 63,
	Range6M: 126,
	Range1Y: 252,
}

// Days returns the number of points the range covers.
func (r RangeCode) Days() (int, bool) {
	n, ok := tradingDays[r]
	return n, ok
}

// ChartMode selects the price rendering.
type ChartMode string

const (
	Line   ChartMode = "Line"
	Candle ChartMode = "Candle"
)

const (
	// MaxLabels bounds the number of x-axis labels.
	MaxLabels = 8
	// LabelLayout renders x-axis dates.
	LabelLayout = "Jan 02"

	baselineFactor = 0.999
	minBodyHeight  = 0.01
)

// Candlestick is one candle. Body is null when open or close is missing.
type Candlestick struct {
	BodyLow    null.Float `json:"body_low"`
	BodyHeight null.Float `json:"body_height"`
	High       null.Float `json:"high"`
	Low        null.Float `json:"low"`
	Up         bool       `json:"up"`
}

// VolumeBar is one volume bar colored with the candle rule.
type VolumeBar struct {
	Volume null.Int `json:"volume"`
	Up     bool     `json:"up"`
}

// Label is an x-axis label at a slice position.
type Label struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Slice is the window plus everything a renderer needs for it.
// Closes and Baseline are set in Line mode, Candles in Candle mode.
type Slice struct {
	Ticker   string               `json:"ticker"`
	Range    RangeCode            `json:"range"`
	Mode     ChartMode            `json:"mode"`
	Points   []market.SeriesPoint `json:"points"`
	Closes   []null.Float         `json:"closes,omitempty"`
	Baseline null.Float           `json:"baseline"`
	Candles  []Candlestick        `json:"candles,omitempty"`
	Volumes  []VolumeBar          `json:"volumes"`
	Labels   []Label              `json:"labels"`
}

// Title is the chart heading, e.g. "AAPL  —  3M  Line".
func (s Slice) Title() string {
	return fmt.Sprintf("%s  —  %s  %s", s.Ticker, s.Range, s.Mode)
}

// Compute returns the last r.Days() points of series with the derived fields
// for mode. A shorter series yields all of its points.
func Compute(series market.TimeSeries, r RangeCode, mode ChartMode) (Slice, error) {
	n, ok := r.Days()
	if !ok {
		return Slice{}, fmt.Errorf("%w: %q", ErrUnknownRange, r)
	}
	if mode != Line && mode != Candle {
		return Slice{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	pts := series.Last(n)
	out := Slice{
		Ticker:  series.Ticker,
		Range:   r,
		Mode:    mode,
		Points:  pts,
		Volumes: make([]VolumeBar, len(pts)),
		Labels:  Labels(pts),
	}
	for i, p := range pts {
		out.Volumes[i] = VolumeBar{Volume: p.Volume, Up: p.Up()}
	}

	switch mode {
	case Line:
		out.Closes = make([]null.Float, len(pts))
		for i, p := range pts {
			out.Closes[i] = p.Close
		}
		out.Baseline = Baseline(pts)
	case Candle:
		out.Candles = make([]Candlestick, len(pts))
		for i, p := range pts {
			out.Candles[i] = candle(p)
		}
	}
	return out, nil
}

// Baseline is the line-fill floor: the smallest close scaled by 0.999.
// Null when no close is known.
func Baseline(pts []market.SeriesPoint) null.Float {
	low := math.Inf(1)
	for _, p := range pts {
		if p.Close.Valid && p.Close.Float64 < low {
			low = p.Close.Float64
		}
	}
	if math.IsInf(low, 1) {
		return null.Float{}
	}
	return null.FloatFrom(low * baselineFactor)
}

func candle(p market.SeriesPoint) Candlestick {
	c := Candlestick{High: p.High, Low: p.Low, Up: p.Up()}
	if !p.Open.Valid || !p.Close.Valid {
		return c
	}
	o, cl := p.Open.Float64, p.Close.Float64
	c.BodyLow = null.FloatFrom(math.Min(o, cl))
	// a flat day still gets a visible body
	c.BodyHeight = null.FloatFrom(math.Max(math.Abs(cl-o), minBodyHeight))
	return c
}

// Labels samples positions 0, step, 2*step... with step = max(1, n/8),
// keeping at most MaxLabels of them.
func Labels(pts []market.SeriesPoint) []Label {
	n := len(pts)
	step := max(1, n/MaxLabels)
	out := make([]Label, 0, min(n, MaxLabels))
	for i := 0; i < n && len(out) < MaxLabels; i += step {
		out = append(out, Label{Index: i, Text: pts[i].Date.Format(LabelLayout)})
	}
	return out
}
