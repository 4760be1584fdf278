// Package orchestrator runs staged market data fetches against a
// rate-limited API on a single background worker.
//
// A search session walks quote, daily series and overview in order. Each
// stage waits on the pacer, performs exactly one call, normalizes the
// result and emits it as an Event. A failed stage is recorded and the
// session carries on; the session ends with one status Event. Starting a
// new search supersedes the running session, which stops emitting at its
// next checkpoint. News requests are single calls with no pacing.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"marketterminal/internal/alphavantage"
	"marketterminal/internal/cache"
	"marketterminal/internal/logger"
	"marketterminal/internal/ratelimit"
)

var (
	ErrEmptyTicker = errors.New("please enter a ticker symbol")
	ErrQueueFull   = errors.New("orchestrator: request queue is full")
	// ErrEmptyResult marks a well-formed response that carried no data,
	// e.g. for an unknown ticker.
	ErrEmptyResult = errors.New("no data")
)

// API is the upstream market data source. Every method performs one call.
type API interface {
	Quote(ctx context.Context, ticker string) (json.RawMessage, error)
	DailySeries(ctx context.Context, ticker string) (json.RawMessage, error)
	Overview(ctx context.Context, ticker string) (json.RawMessage, error)
	News(ctx context.Context, ticker string, limit int) (json.RawMessage, error)
}

const defaultQueueSize = 16

type jobKind int

const (
	jobSearch jobKind = iota
	jobNews
)

type job struct {
	kind    jobKind
	session Session
}

// Orchestrator owns the worker, the active session and the event stream.
type Orchestrator struct {
	api       API
	pacer     ratelimit.Pacer
	series    *cache.Series
	log       logrus.FieldLogger
	newsLimit int
	now       func() time.Time

	jobs   chan job
	events chan Event

	mu     sync.Mutex
	active Session
	state  State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithNewsLimit sets how many articles a news request asks for.
func WithNewsLimit(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.newsLimit = limit
		}
	}
}

// WithQueueSize sets the capacity of the job queue and of the event stream.
func WithQueueSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.jobs = make(chan job, n)
			o.events = make(chan Event, n*8)
		}
	}
}

// New returns an Orchestrator writing fetched series into series.
// Call Run to start the worker.
func New(api API, pacer ratelimit.Pacer, series *cache.Series, options ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		pacer:     pacer,
		series:    series,
		log:       logger.Discard(),
		newsLimit: alphavantage.DefaultNewsLimit,
		now:       time.Now,
		jobs:      make(chan job, defaultQueueSize),
		events:    make(chan Event, defaultQueueSize*8),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Events is the ordered stream of results. It is closed when Run returns.
func (o *Orchestrator) Events() <-chan Event { return o.events }

// Search starts a session for ticker and supersedes any other.
// It never blocks.
func (o *Orchestrator) Search(ticker string) (Session, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Session{}, ErrEmptyTicker
	}
	s := Session{ID: newSessionID(), Ticker: ticker, Started: o.now()}

	o.mu.Lock()
	defer o.mu.Unlock()
	select {
	case o.jobs <- job{kind: jobSearch, session: s}:
	default:
		return Session{}, ErrQueueFull
	}
	o.active = s
	o.state = Idle
	return s, nil
}

// News queues one news call. An empty ticker asks for general market news.
func (o *Orchestrator) News(ticker string) (Session, error) {
	s := Session{ID: newSessionID(), Ticker: NormalizeTicker(ticker), Started: o.now()}
	select {
	case o.jobs <- job{kind: jobNews, session: s}:
		return s, nil
	default:
		return Session{}, ErrQueueFull
	}
}

// Active returns the current session and its state. ok is false before
// the first search.
func (o *Orchestrator) Active() (s Session, state State, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active, o.state, o.active.ID != ""
}

// Run performs queued jobs one at a time until ctx is done.
// It must be called exactly once.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.events)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j := <-o.jobs:
			switch j.kind {
			case jobSearch:
				o.runSession(ctx, j.session)
			case jobNews:
				o.runNews(ctx, j.session)
			}
		}
	}
}

// NormalizeTicker trims and upper-cases a user supplied ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (o *Orchestrator) isActive(id SessionID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active.ID == id
}

// setState records progress for id; stale sessions are ignored.
func (o *Orchestrator) setState(id SessionID, state State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active.ID != id {
		return false
	}
	o.state = state
	return true
}

// emit delivers e unless ctx ends first.
func (o *Orchestrator) emit(ctx context.Context, e Event) bool {
	select {
	case o.events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
