package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"marketterminal/internal/alphavantage"
	"marketterminal/internal/cache"
	"marketterminal/internal/config"
	"marketterminal/internal/httpx"
	"marketterminal/internal/logger"
	"marketterminal/internal/orchestrator"
	"marketterminal/internal/ratelimit"
	"marketterminal/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	httpClient := httpx.New(cfg.RequestTimeout())
	client, err := alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(httpClient),
		alphavantage.WithTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		return fmt.Errorf("alphavantage client: %w", err)
	}

	series := &cache.Series{}
	orch := orchestrator.New(client,
		ratelimit.New(cfg.Pacing.Mode, cfg.StageDelay()),
		series,
		orchestrator.WithLogger(log),
		orchestrator.WithNewsLimit(cfg.AlphaVantage.NewsLimit),
	)
	v := newView()
	term := terminal.New(orch, series, v.handlers())

	addr := ":" + cfg.Server.Port
	h := server.New(server.WithHostPorts(addr))
	(&api{term: term, view: v, log: log}).register(h.Engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return orch.Run(ctx) })
	g.Go(func() error { return term.Run(ctx) })
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":   addr,
			"pacing": cfg.Pacing.Mode,
			"delay":  cfg.StageDelay(),
		}).Info("server listening")
		return h.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
