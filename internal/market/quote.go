package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel is the placeholder shown for missing or unparseable display data.
const Sentinel = "—"

// Direction classifies a price move for coloring.
type Direction int

const (
	// Unknown means the change could not be parsed.
	Unknown Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// DirectionOf classifies a change value. Zero counts as Up.
func DirectionOf(change string) Direction {
	f, err := strconv.ParseFloat(strings.TrimSpace(change), 64)
	if err != nil {
		return Unknown
	}
	if f >= 0 {
		return Up
	}
	return Down
}

// Quote is the normalized live quote for one ticker.
// Values are kept as the vendor's display strings; a missing field holds Sentinel.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Price         string    `json:"price"`
	Change        string    `json:"change"`
	ChangePercent string    `json:"change_percent"`
	Open          string    `json:"open"`
	High          string    `json:"high"`
	Low           string    `json:"low"`
	PreviousClose string    `json:"previous_close"`
	Volume        string    `json:"volume"`
	Direction     Direction `json:"direction"`
}

// Empty reports whether the quote was built from no data.
func (q Quote) Empty() bool {
	return q == (Quote{})
}

// PriceLabel renders the price with a dollar sign.
func (q Quote) PriceLabel() string {
	return "$" + q.Price
}

// ChangeLabel renders "+1.23  (0.45%)"; the sign is only added when the change parses.
func (q Quote) ChangeLabel() string {
	if q.Direction == Up {
		return fmt.Sprintf("+%s  (%s)", q.Change, q.ChangePercent)
	}
	return fmt.Sprintf("%s  (%s)", q.Change, q.ChangePercent)
}

// VolumeLabel abbreviates the volume to M/K with one decimal.
func (q Quote) VolumeLabel() string {
	return FormatVolume(q.Volume)
}

// FormatVolume abbreviates an integer volume string. Unparseable input is returned verbatim.
func FormatVolume(v string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return v
	}
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
