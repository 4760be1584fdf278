package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"marketterminal/internal/alphavantage"
	"marketterminal/internal/cache"
	"marketterminal/internal/config"
	"marketterminal/internal/httpx"
	"marketterminal/internal/logger"
	"marketterminal/internal/market"
	"marketterminal/internal/orchestrator"
	"marketterminal/internal/ratelimit"
	"marketterminal/internal/terminal"
	"marketterminal/internal/window"
)

func main() {
	var ticker string
	var withNews bool
	var rangeCode string
	var mode string
	var configPath string

	flag.StringVar(&ticker, "ticker", getenv("TICKER", "IBM"), "ticker to load")
	flag.BoolVar(&withNews, "news", false, "also load news for the ticker")
	flag.StringVar(&rangeCode, "range", string(window.DefaultRange), "chart range: 1M, 3M, 6M or 1Y")
	flag.StringVar(&mode, "mode", string(window.Line), "chart mode: Line or Candle")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fatal("logger: %v", err)
	}
	log.SetOutput(os.Stderr)

	client, err := alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(httpx.New(cfg.RequestTimeout())),
		alphavantage.WithTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		fatal("alphavantage client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	series := &cache.Series{}
	orch := orchestrator.New(client, ratelimit.New(cfg.Pacing.Mode, cfg.StageDelay()), series,
		orchestrator.WithLogger(log),
		orchestrator.WithNewsLimit(cfg.AlphaVantage.NewsLimit),
	)

	done := make(chan bool, 1)
	newsDone := make(chan struct{}, 1)
	term := terminal.New(orch, series, terminal.Handlers{
		OnProgress: func(_ string, msg string) { fmt.Println(msg) },
		OnQuote:    printQuote,
		OnSeries: func(s market.TimeSeries) {
			fmt.Printf("\nSERIES  %d daily points\n", s.Len())
		},
		OnOverview: printOverview,
		OnNews: func(articles []market.NewsArticle) {
			printNews(articles)
			newsDone <- struct{}{}
		},
		OnNewsError: func(err error) {
			fmt.Printf("News error: %v\n", err)
			newsDone <- struct{}{}
		},
		OnStatus: func(ok bool, msg string) {
			fmt.Printf("\n%s\n", msg)
			done <- ok
		},
	})

	go func() { _ = orch.Run(ctx) }()
	go func() { _ = term.Run(ctx) }()

	if _, err := term.Search(ticker); err != nil {
		fatal("%v", err)
	}

	var ok bool
	select {
	case ok = <-done:
	case <-ctx.Done():
		os.Exit(130)
	}

	if sl, err := term.Window(window.RangeCode(rangeCode), window.ChartMode(mode)); err == nil {
		printWindow(sl)
		printHistory(term)
	} else {
		fmt.Printf("chart: %v\n", err)
	}

	if withNews {
		if _, err := term.News(term.Ticker()); err != nil {
			fatal("%v", err)
		}
		select {
		case <-newsDone:
		case <-ctx.Done():
		}
	}
	if !ok {
		os.Exit(1)
	}
}

func printQuote(q market.Quote) {
	fmt.Printf("\nQUOTE  %s  %s  %s\n", q.Ticker, q.PriceLabel(), q.ChangeLabel())
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "OPEN\t%s\tHIGH\t%s\tLOW\t%s\n", q.Open, q.High, q.Low)
	fmt.Fprintf(tw, "PREV\t%s\tVOL\t%s\n", q.PreviousClose, q.VolumeLabel())
	_ = tw.Flush()
}

func printOverview(o market.CompanyOverview) {
	fmt.Printf("\nOVERVIEW  %s\n", o.Title())
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range o.Rows() {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Value)
	}
	_ = tw.Flush()
	if o.Description != "" {
		fmt.Printf("\n%s\n", o.Description)
	}
}

func printWindow(sl window.Slice) {
	fmt.Printf("\n%s  (%d points)\n", sl.Title(), len(sl.Points))
	labels := make([]string, len(sl.Labels))
	for i, l := range sl.Labels {
		labels[i] = l.Text
	}
	fmt.Printf("axis: %s\n", strings.Join(labels, " | "))
	if sl.Baseline.Valid {
		fmt.Printf("baseline: %.2f\n", sl.Baseline.Float64)
	}
}

func printHistory(term *terminal.Terminal) {
	rows, err := term.History()
	if err != nil {
		return
	}
	fmt.Printf("\nPRICE HISTORY (%d Days)\n", window.HistoryDays)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tOpen\tHigh\tLow\tClose\tVolume\t\t")
	for _, r := range rows {
		trend := "▼"
		if r.Up {
			trend = "▲"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Date, r.Open, r.High, r.Low, r.Close, r.Volume, trend)
	}
	_ = tw.Flush()
}

func printNews(articles []market.NewsArticle) {
	fmt.Printf("\nNEWS  %d articles\n", len(articles))
	for _, a := range articles {
		fmt.Printf("\n%s  ·  %s  [%s]\n%s\n", a.Source, a.Published, a.SentimentLabel, a.Headline)
		if a.Summary != "" {
			fmt.Println(a.Summary)
		}
		if a.URL != "" {
			fmt.Println(a.URL)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
