// Command raw_dump saves unmodified upstream payloads, one object per ticker
// keyed by function name. Calls are strictly sequential and paced.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"marketterminal/internal/alphavantage"
	"marketterminal/internal/config"
	"marketterminal/internal/httpx"
	"marketterminal/internal/logger"
	"marketterminal/internal/orchestrator"
	"marketterminal/internal/ratelimit"
)

var allFunctions = []alphavantage.Function{
	alphavantage.FunctionQuote,
	alphavantage.FunctionDailySeries,
	alphavantage.FunctionOverview,
	alphavantage.FunctionNews,
}

func main() {
	var (
		tickersCSV  string
		tickersFile string
		outPath     string
		cfgPath     string
		funcsCSV    string
	)
	flag.StringVar(&tickersCSV, "tickers", "", "comma-separated tickers")
	flag.StringVar(&tickersFile, "tickers-file", "", "file with one ticker per line")
	flag.StringVar(&outPath, "out", "raw_payloads.json", "output JSON file path")
	flag.StringVar(&cfgPath, "config", "", "path to config.yaml (optional)")
	flag.StringVar(&funcsCSV, "functions", "", "functions to call (default: all four)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
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

	tickers, err := readTickers(tickersCSV, tickersFile)
	if err != nil {
		log.Fatalf("read tickers: %v", err)
	}
	if len(tickers) == 0 {
		log.Fatal("no tickers given; use -tickers or -tickers-file")
	}
	funcs, err := parseFunctions(funcsCSV)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{"tickers": len(tickers), "functions": len(funcs)}).Info("dump starting")

	client, err := alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(httpx.New(cfg.RequestTimeout())),
		alphavantage.WithTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		log.Fatalf("alphavantage client: %v", err)
	}
	// adaptive spacing holds across tickers, not only within one
	pacer := ratelimit.NewAdaptive(cfg.StageDelay())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create out: %v", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriterSize(outFile, 1<<20)

	_, _ = bw.WriteString("{")
	for i, ticker := range tickers {
		if i > 0 {
			_, _ = bw.WriteString(",")
		}
		key, _ := json.Marshal(ticker)
		_, _ = bw.Write(key)
		_, _ = bw.WriteString(":{")
		written := 0
		for j, fn := range funcs {
			if err := pacer.Wait(ctx, i*len(funcs)+j); err != nil {
				log.Warn("interrupted; closing output")
				break
			}
			raw, err := call(ctx, client, fn, ticker, cfg.AlphaVantage.NewsLimit)
			entry := log.WithFields(logrus.Fields{"ticker": ticker, "function": fn})
			if err != nil {
				entry.WithError(err).Warn("call failed")
				continue
			}
			if written > 0 {
				_, _ = bw.WriteString(",")
			}
			fmt.Fprintf(bw, "%q:", fn)
			_, _ = bw.Write(raw)
			written++
			entry.WithField("bytes", len(raw)).Info("saved")
		}
		_, _ = bw.WriteString("}")
		if ctx.Err() != nil {
			break
		}
	}
	_, _ = bw.WriteString("}\n")
	if err := bw.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	log.Infof("done: wrote %s", outPath)
}

func call(ctx context.Context, c *alphavantage.Client, fn alphavantage.Function, ticker string, newsLimit int) (json.RawMessage, error) {
	switch fn {
	case alphavantage.FunctionQuote:
		return c.Quote(ctx, ticker)
	case alphavantage.FunctionDailySeries:
		return c.DailySeries(ctx, ticker)
	case alphavantage.FunctionOverview:
		return c.Overview(ctx, ticker)
	case alphavantage.FunctionNews:
		return c.News(ctx, ticker, newsLimit)
	default:
		return nil, fmt.Errorf("unsupported function %q", fn)
	}
}

func parseFunctions(csv string) ([]alphavantage.Function, error) {
	if strings.TrimSpace(csv) == "" {
		return allFunctions, nil
	}
	var out []alphavantage.Function
	for _, name := range splitCSV(csv) {
		fn := alphavantage.Function(strings.ToUpper(name))
		found := false
		for _, known := range allFunctions {
			if fn == known {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		out = append(out, fn)
	}
	return out, nil
}

// readTickers merges both sources, normalized, de-duplicated and sorted.
func readTickers(csv, path string) ([]string, error) {
	names := splitCSV(csv)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		names = append(names, strings.Fields(string(b))...)
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = orchestrator.NormalizeTicker(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	if len(out) == 0 && (csv != "" || path != "") {
		return nil, errors.New("no usable tickers")
	}
	return out, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
