// Package terminal is the presentation side of the orchestrator: it consumes
// the event stream, drops results of superseded sessions and hands the rest
// to callbacks. Chart windows are computed on demand from the series cache.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"marketterminal/internal/cache"
	"marketterminal/internal/market"
	"marketterminal/internal/orchestrator"
	"marketterminal/internal/window"
)

var (
	ErrNoSeries    = errors.New("terminal: no series loaded")
	ErrStaleSeries = errors.New("terminal: cached series belongs to another ticker")
)

// Handlers receive the results of the active session. Nil handlers are skipped.
// They run on the goroutine that calls Run and must not block for long.
type Handlers struct {
	OnProgress  func(ticker, message string)
	OnQuote     func(market.Quote)
	OnSeries    func(market.TimeSeries)
	OnOverview  func(market.CompanyOverview)
	OnNews      func([]market.NewsArticle)
	OnNewsError func(error)
	// OnStatus fires once per session; ok is false when any stage failed.
	OnStatus func(ok bool, message string)
}

// Terminal tracks which session and news request are current.
type Terminal struct {
	orch   *orchestrator.Orchestrator
	series *cache.Series
	h      Handlers

	mu      sync.Mutex
	session orchestrator.SessionID
	ticker  string
	news    orchestrator.SessionID
}

func New(orch *orchestrator.Orchestrator, series *cache.Series, h Handlers) *Terminal {
	return &Terminal{orch: orch, series: series, h: h}
}

// Search starts a session for ticker. Results of earlier sessions are dropped from now on.
func (t *Terminal) Search(ticker string) (orchestrator.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.orch.Search(ticker)
	if err != nil {
		return s, err
	}
	t.session, t.ticker = s.ID, s.Ticker
	return s, nil
}

// News requests articles for ticker, or general market news when it is empty.
// Only the latest request's result is delivered.
func (t *Terminal) News(ticker string) (orchestrator.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.orch.News(ticker)
	if err != nil {
		return s, err
	}
	t.news = s.ID
	return s, nil
}

// Ticker returns the ticker of the current session.
func (t *Terminal) Ticker() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticker
}

// Run dispatches events until the stream closes or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	events := t.orch.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}
			t.Dispatch(e)
		}
	}
}

// Dispatch hands e to its handler if it belongs to the current session or
// news request. It reports whether e was delivered.
func (t *Terminal) Dispatch(e orchestrator.Event) bool {
	if !t.current(e) {
		return false
	}
	switch e.Kind {
	case orchestrator.EventProgress:
		call2(t.h.OnProgress, e.Ticker, e.Message)
	case orchestrator.EventQuote:
		call(t.h.OnQuote, e.Quote)
	case orchestrator.EventSeries:
		call(t.h.OnSeries, e.Series)
	case orchestrator.EventOverview:
		call(t.h.OnOverview, e.Overview)
	case orchestrator.EventNews:
		call(t.h.OnNews, e.News)
	case orchestrator.EventNewsError:
		call(t.h.OnNewsError, e.Err)
	case orchestrator.EventStatus:
		call2(t.h.OnStatus, e.OK(), e.Message)
	default:
		return false
	}
	return true
}

func (t *Terminal) current(e orchestrator.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Kind {
	case orchestrator.EventNews, orchestrator.EventNewsError:
		return e.Session == t.news
	default:
		return e.Session == t.session
	}
}

func call[T any](fn func(T), v T) {
	if fn != nil {
		fn(v)
	}
}

func call2[A, B any](fn func(A, B), a A, b B) {
	if fn != nil {
		fn(a, b)
	}
}

// Window computes a chart window from the cached series of the current ticker.
// It never touches the network.
func (t *Terminal) Window(r window.RangeCode, mode window.ChartMode) (window.Slice, error) {
	series, err := t.cached()
	if err != nil {
		return window.Slice{}, err
	}
	return window.Compute(series, r, mode)
}

// History returns the price history table of the current ticker.
func (t *Terminal) History() ([]window.HistoryRow, error) {
	series, err := t.cached()
	if err != nil {
		return nil, err
	}
	return window.History(series, window.HistoryDays), nil
}

func (t *Terminal) cached() (market.TimeSeries, error) {
	ticker, series, ok := t.series.Load()
	if !ok {
		return market.TimeSeries{}, ErrNoSeries
	}
	if current := t.Ticker(); current != "" && current != ticker {
		return market.TimeSeries{}, fmt.Errorf("%w: have %s, want %s", ErrStaleSeries, ticker, current)
	}
	return series, nil
}
