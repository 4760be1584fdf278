package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"marketterminal/internal/alphavantage"
)

func TestReadTickers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.txt")
	require.NoError(t, os.WriteFile(path, []byte("msft\n ibm \n\nAAPL\n"), 0o600))

	got, err := readTickers(" aapl, ,nvda", path)
	require.NoError(t, err)
	require.Equal(t, []string{"AAPL", "IBM", "MSFT", "NVDA"}, got)

	_, err = readTickers(" , ", "")
	require.Error(t, err)

	got, err = readTickers("", "")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestParseFunctions(t *testing.T) {
	got, err := parseFunctions("")
	require.NoError(t, err)
	require.Equal(t, allFunctions, got)

	got, err = parseFunctions("overview, global_quote")
	require.NoError(t, err)
	require.Equal(t, []alphavantage.Function{alphavantage.FunctionOverview, alphavantage.FunctionQuote}, got)

	_, err = parseFunctions("TIME_SERIES_INTRADAY")
	require.ErrorContains(t, err, "unknown function")
}
