package orchestrator

import (
	"time"

	"github.com/google/uuid"
	"marketterminal/internal/market"
)

// SessionID identifies one search session or one news request.
type SessionID string

func newSessionID() SessionID { return SessionID(uuid.NewString()) }

// Session is one ticker's staged fetch.
type Session struct {
	ID      SessionID `json:"id"`
	Ticker  string    `json:"ticker"`
	Started time.Time `json:"started"`
}

// State is the stage a session is in.
type State int

const (
	Idle State = iota
	FetchingQuote
	FetchingSeries
	FetchingOverview
	Done
)

func (s State) String() string {
	switch s {
	case FetchingQuote:
		return "fetching_quote"
	case FetchingSeries:
		return "fetching_series"
	case FetchingOverview:
		return "fetching_overview"
	case Done:
		return "done"
	default:
		return "idle"
	}
}

// EventKind tells which payload field of an Event is set.
type EventKind int

const (
	EventProgress EventKind = iota
	EventQuote
	EventSeries
	EventOverview
	EventNews
	EventNewsError
	EventStatus
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventQuote:
		return "quote"
	case EventSeries:
		return "series"
	case EventOverview:
		return "overview"
	case EventNews:
		return "news"
	case EventNewsError:
		return "news_error"
	case EventStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Event is one message from the worker to the presentation side.
// Session is the search session, or the news request for news events.
type Event struct {
	Kind    EventKind
	Session SessionID
	Ticker  string
	State   State
	Message string

	Quote    market.Quote
	Series   market.TimeSeries
	Overview market.CompanyOverview
	News     []market.NewsArticle

	// Failures lists the failed stages of a finished session.
	Failures []StageError
	Err      error
}

// OK reports whether a status event describes a session with no failed stage.
func (e Event) OK() bool {
	return e.Kind == EventStatus && len(e.Failures) == 0
}
