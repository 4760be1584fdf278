package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"marketterminal/internal/ratelimit"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "ALPHAVANTAGE_API_KEY", "ALPHAVANTAGE_BASE_URL", "REQUEST_TIMEOUT_SEC",
		"NEWS_LIMIT", "STAGE_DELAY_SEC", "PACING_MODE", "ALLOW_FAST_PACING", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 13*time.Second, cfg.StageDelay())
	require.Equal(t, 15*time.Second, cfg.RequestTimeout())
	require.Equal(t, ratelimit.ModeFixed, cfg.Pacing.Mode)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
server:
  port: "9090"
alphavantage:
  api_key: from-file
  news_limit: 50
pacing:
  mode: adaptive
  stage_delay_sec: 20
log:
  level: debug
`)
	clearEnv(t)
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("STAGE_DELAY_SEC", "15")
	t.Setenv("REQUEST_TIMEOUT_SEC", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "from-env", cfg.AlphaVantage.APIKey)
	require.Equal(t, 50, cfg.AlphaVantage.NewsLimit)
	require.Equal(t, 15, cfg.AlphaVantage.RequestTimeoutSec)
	require.Equal(t, ratelimit.ModeAdaptive, cfg.Pacing.Mode)
	require.Equal(t, 15*time.Second, cfg.StageDelay())
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "https://www.alphavantage.co/query", cfg.AlphaVantage.BaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unterminated"))
	require.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.AlphaVantage.APIKey = "demo"
	require.NoError(t, valid.Validate())

	missing := Default()
	require.ErrorIs(t, missing.Validate(), ErrMissingAPIKey)

	fast := valid
	fast.Pacing.StageDelaySec = 1
	require.ErrorContains(t, fast.Validate(), "ALLOW_FAST_PACING")
	fast.Pacing.AllowFastPacing = true
	require.NoError(t, fast.Validate())

	mode := valid
	mode.Pacing.Mode = "bursty"
	require.ErrorContains(t, mode.Validate(), "unknown pacing mode")
}

func TestApplyEnv_FastPacingFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOW_FAST_PACING", "yes")
	t.Setenv("PACING_MODE", " Adaptive ")

	cfg := Default()
	applyEnv(&cfg)
	require.True(t, cfg.Pacing.AllowFastPacing)
	require.Equal(t, ratelimit.ModeAdaptive, cfg.Pacing.Mode)
}
