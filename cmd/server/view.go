package main

import (
	"strconv"
	"sync"

	"marketterminal/internal/market"
	"marketterminal/internal/terminal"
)

// snapshot is what GET /api/state returns: the latest state of every panel.
type snapshot struct {
	Ticker    string               `json:"ticker"`
	Status    string               `json:"status"`
	StatusOK  bool                 `json:"status_ok"`
	Loading   bool                 `json:"loading"`
	Quote     *quoteView           `json:"quote,omitempty"`
	Overview  *overviewView        `json:"overview,omitempty"`
	Points    int                  `json:"points"`
	News      []market.NewsArticle `json:"news"`
	NewsError string               `json:"news_error,omitempty"`
}

type quoteView struct {
	market.Quote
	PriceLabel  string `json:"price_label"`
	ChangeLabel string `json:"change_label"`
	VolumeLabel string `json:"volume_label"`
	Trend       string `json:"trend"`
}

type overviewView struct {
	Title       string       `json:"title"`
	Rows        []market.Row `json:"rows"`
	Description string       `json:"description"`
}

// view folds terminal callbacks into a snapshot.
type view struct {
	mu   sync.RWMutex
	snap snapshot
}

func newView() *view {
	return &view{snap: snapshot{Status: "Enter a ticker and press SEARCH", StatusOK: true, News: []market.NewsArticle{}}}
}

func (v *view) update(fn func(s *snapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.snap)
}

func (v *view) snapshot() snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// searching resets the panels for a new ticker.
func (v *view) searching(ticker string) {
	v.update(func(s *snapshot) {
		s.Ticker = ticker
		s.Status = "Loading " + ticker + " …"
		s.StatusOK = true
		s.Loading = true
		s.Quote = nil
		s.Overview = nil
		s.Points = 0
	})
}

func (v *view) loadingNews() {
	v.update(func(s *snapshot) {
		s.Status = "Loading news …"
		s.StatusOK = true
		s.NewsError = ""
	})
}

func (v *view) handlers() terminal.Handlers {
	return terminal.Handlers{
		OnProgress: func(_ string, msg string) {
			v.update(func(s *snapshot) { s.Status = msg })
		},
		OnQuote: func(q market.Quote) {
			v.update(func(s *snapshot) {
				s.Quote = &quoteView{
					Quote:       q,
					PriceLabel:  q.PriceLabel(),
					ChangeLabel: q.ChangeLabel(),
					VolumeLabel: q.VolumeLabel(),
					Trend:       q.Direction.String(),
				}
			})
		},
		OnSeries: func(ts market.TimeSeries) {
			v.update(func(s *snapshot) { s.Points = ts.Len() })
		},
		OnOverview: func(o market.CompanyOverview) {
			v.update(func(s *snapshot) {
				s.Overview = &overviewView{Title: o.Title(), Rows: o.Rows(), Description: o.Description}
			})
		},
		OnNews: func(articles []market.NewsArticle) {
			v.update(func(s *snapshot) {
				s.News = articles
				s.NewsError = ""
				s.Status = newsStatus(len(articles))
				s.StatusOK = true
			})
		},
		OnNewsError: func(err error) {
			v.update(func(s *snapshot) {
				s.NewsError = err.Error()
				s.Status = "News error: " + err.Error()
				s.StatusOK = false
			})
		},
		OnStatus: func(ok bool, msg string) {
			v.update(func(s *snapshot) {
				s.Status = msg
				s.StatusOK = ok
				s.Loading = false
			})
		},
	}
}

func newsStatus(n int) string {
	return "Loaded " + strconv.Itoa(n) + " articles."
}
