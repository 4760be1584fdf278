package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terminal.log")

	log, err := New("debug", path)
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("ticker", "IBM").Info("loaded")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "loaded")
	require.Contains(t, string(b), "ticker=IBM")
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	log, err := New("chatty", "")
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_BadFile(t *testing.T) {
	_, err := New("info", filepath.Join(t.TempDir(), "missing", "x.log"))
	require.Error(t, err)
}
