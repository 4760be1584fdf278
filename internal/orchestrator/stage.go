package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"marketterminal/internal/normalize"
)

// StageError is the failure of one stage of a session.
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e StageError) Unwrap() error { return e.Err }

// StatusSeparator joins the failed stages in a status message.
const StatusSeparator = " · "

// StatusMessage renders the end of a session for humans.
func StatusMessage(ticker string, failures []StageError) string {
	if len(failures) == 0 {
		return ticker + " loaded successfully."
	}
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.Error()
	}
	return strings.Join(parts, StatusSeparator)
}

type stage struct {
	name     string
	state    State
	progress string
	fetch    func(o *Orchestrator, ctx context.Context, ticker string) (Event, error)
}

var stages = []stage{
	{name: "Quote", state: FetchingQuote, progress: "Loading %s …", fetch: (*Orchestrator).fetchQuote},
	{name: "Series", state: FetchingSeries, progress: "Loading %s — fetching daily series …", fetch: (*Orchestrator).fetchSeries},
	{name: "Overview", state: FetchingOverview, progress: "Loading %s — fetching overview …", fetch: (*Orchestrator).fetchOverview},
}

func (o *Orchestrator) runSession(ctx context.Context, s Session) {
	log := o.log.WithFields(logrus.Fields{"session": s.ID, "ticker": s.Ticker})
	var failures []StageError

	for i, st := range stages {
		if i == 0 && !o.isActive(s.ID) {
			log.Debug("session superseded before start")
			return
		}
		// Waits are not cut short by supersession; spacing holds across sessions.
		if err := o.pacer.Wait(ctx, i); err != nil {
			return
		}
		if !o.setState(s.ID, st.state) {
			log.Debug("session superseded")
			return
		}
		if !o.emit(ctx, Event{Kind: EventProgress, Session: s.ID, Ticker: s.Ticker, State: st.state, Message: fmt.Sprintf(st.progress, s.Ticker)}) {
			return
		}

		stageLog := log.WithField("stage", st.name)
		stageLog.Debug("stage started")
		e, err := st.fetch(o, ctx, s.Ticker)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			stageLog.WithError(err).Warn("stage failed")
			failures = append(failures, StageError{Stage: st.name, Err: err})
			continue
		}
		if o.deliver(ctx, s, e) {
			stageLog.Debug("stage finished")
		}
	}

	if !o.setState(s.ID, Done) {
		return
	}
	msg := StatusMessage(s.Ticker, failures)
	log.WithField("failed", len(failures)).Info(msg)
	o.emit(ctx, Event{Kind: EventStatus, Session: s.ID, Ticker: s.Ticker, State: Done, Message: msg, Failures: failures})
}

// deliver swaps a fetched series into the cache and emits e, both only while
// s is still the active session.
func (o *Orchestrator) deliver(ctx context.Context, s Session, e Event) bool {
	e.Session, e.Ticker = s.ID, s.Ticker
	o.mu.Lock()
	if o.active.ID != s.ID {
		o.mu.Unlock()
		return false
	}
	e.State = o.state
	if e.Kind == EventSeries {
		o.series.Store(s.Ticker, e.Series)
	}
	o.mu.Unlock()
	return o.emit(ctx, e)
}

func (o *Orchestrator) fetchQuote(ctx context.Context, ticker string) (Event, error) {
	raw, err := o.api.Quote(ctx, ticker)
	if err != nil {
		return Event{}, err
	}
	q := normalize.Quote(raw, ticker)
	if q.Empty() {
		return Event{}, emptyResult(ticker)
	}
	return Event{Kind: EventQuote, Quote: q}, nil
}

func (o *Orchestrator) fetchSeries(ctx context.Context, ticker string) (Event, error) {
	raw, err := o.api.DailySeries(ctx, ticker)
	if err != nil {
		return Event{}, err
	}
	series := normalize.Series(raw, ticker)
	if series.Empty() {
		return Event{}, emptyResult(ticker)
	}
	return Event{Kind: EventSeries, Series: series}, nil
}

func (o *Orchestrator) fetchOverview(ctx context.Context, ticker string) (Event, error) {
	raw, err := o.api.Overview(ctx, ticker)
	if err != nil {
		return Event{}, err
	}
	ov := normalize.Overview(raw, ticker)
	if ov.Empty() {
		return Event{}, emptyResult(ticker)
	}
	return Event{Kind: EventOverview, Overview: ov}, nil
}

func emptyResult(ticker string) error {
	return fmt.Errorf("%w for %s", ErrEmptyResult, ticker)
}

func (o *Orchestrator) runNews(ctx context.Context, s Session) {
	log := o.log.WithFields(logrus.Fields{"session": s.ID, "ticker": s.Ticker, "stage": "News"})
	raw, err := o.api.News(ctx, s.Ticker, o.newsLimit)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.WithError(err).Warn("news failed")
		o.emit(ctx, Event{Kind: EventNewsError, Session: s.ID, Ticker: s.Ticker, Message: "News error: " + err.Error(), Err: err})
		return
	}
	articles := normalize.News(raw)
	log.WithField("articles", len(articles)).Debug("news loaded")
	o.emit(ctx, Event{Kind: EventNews, Session: s.ID, Ticker: s.Ticker, Message: fmt.Sprintf("Loaded %d articles.", len(articles)), News: articles})
}
