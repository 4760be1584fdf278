package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/sirupsen/logrus"
	"marketterminal/internal/orchestrator"
	"marketterminal/internal/terminal"
	"marketterminal/internal/window"
)

type api struct {
	term *terminal.Terminal
	view *view
	log  logrus.FieldLogger
}

type sessionResponse struct {
	OK      bool   `json:"ok"`
	Session string `json:"session"`
	Ticker  string `json:"ticker"`
}

func fail(c *app.RequestContext, code int, err error) {
	c.JSON(code, map[string]any{"ok": false, "error": err.Error()})
}

func (a *api) register(r *route.Engine) {
	r.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
	r.POST("/api/search", a.search)
	r.POST("/api/news", a.news)
	r.GET("/api/state", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, a.view.snapshot())
	})
	r.GET("/api/window", a.window)
	r.GET("/api/history", a.history)
}

func (a *api) search(_ context.Context, c *app.RequestContext) {
	s, err := a.term.Search(c.Query("ticker"))
	switch {
	case errors.Is(err, orchestrator.ErrEmptyTicker):
		fail(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, orchestrator.ErrQueueFull):
		fail(c, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err)
		return
	}
	a.view.searching(s.Ticker)
	a.log.WithFields(logrus.Fields{"ticker": s.Ticker, "session": s.ID}).Info("search queued")
	c.JSON(http.StatusAccepted, sessionResponse{OK: true, Session: string(s.ID), Ticker: s.Ticker})
}

// news asks for the given ticker, the current one when absent, and general
// market news when neither is known.
func (a *api) news(_ context.Context, c *app.RequestContext) {
	ticker := c.Query("ticker")
	if ticker == "" {
		ticker = a.term.Ticker()
	}
	s, err := a.term.News(ticker)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err)
		return
	}
	a.view.loadingNews()
	c.JSON(http.StatusAccepted, sessionResponse{OK: true, Session: string(s.ID), Ticker: s.Ticker})
}

func (a *api) window(_ context.Context, c *app.RequestContext) {
	r := window.RangeCode(c.DefaultQuery("range", string(window.DefaultRange)))
	mode := window.ChartMode(c.DefaultQuery("mode", string(window.Line)))

	sl, err := a.term.Window(r, mode)
	if err != nil {
		fail(c, seriesStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"ok": true, "title": sl.Title(), "window": sl})
}

func (a *api) history(_ context.Context, c *app.RequestContext) {
	rows, err := a.term.History()
	if err != nil {
		fail(c, seriesStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"ok": true, "rows": rows})
}

func seriesStatus(err error) int {
	switch {
	case errors.Is(err, window.ErrUnknownRange), errors.Is(err, window.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, terminal.ErrNoSeries):
		return http.StatusNotFound
	case errors.Is(err, terminal.ErrStaleSeries):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
