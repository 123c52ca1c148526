package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/calculator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"BTCUSDT"}, cfg.Trading.Symbols)
	assert.Equal(t, "1h", cfg.Trading.Interval)
	assert.Equal(t, 500, cfg.Trading.HistoryLimit)
	assert.Equal(t, calculator.DefaultParams(), cfg.Indicators)
	assert.Equal(t, 2.0, cfg.Risk.StopLossPct)
	assert.Equal(t, 4.0, cfg.Risk.TakeProfitPct)
	assert.Equal(t, "0 0 */4 * * *", cfg.Schedule.Cron)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "binance", cfg.DataSource.Provider)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
trading:
  symbols: [ETHUSDT, SOLUSDT]
  interval: 4h
indicators:
  rsi_period: 21
risk:
  stop_loss_pct: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"ETHUSDT", "SOLUSDT"}, cfg.Trading.Symbols)
	assert.Equal(t, "4h", cfg.Trading.Interval)
	assert.Equal(t, 21, cfg.Indicators.RSIPeriod)
	assert.Equal(t, calculator.DefaultMACDSlow, cfg.Indicators.MACDSlow, "unset fields keep defaults")
	assert.Equal(t, 3.0, cfg.Risk.StopLossPct)
	assert.Equal(t, 4.0, cfg.Risk.TakeProfitPct)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRADING_SYMBOLS", "btcusdt, ethusdt")
	t.Setenv("CRON_SCHEDULE", "0 */15 * * * *")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Trading.Symbols)
	assert.Equal(t, "0 */15 * * * *", cfg.Schedule.Cron)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "trading: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"macd fast above slow", func(c *Config) { c.Indicators.MACDFast = 40 }, "MACDSlow"},
		{"unknown interval", func(c *Config) { c.Trading.Interval = "7m" }, "Interval"},
		{"short history", func(c *Config) { c.Trading.HistoryLimit = 100 }, "HistoryLimit"},
		{"lowercase symbol", func(c *Config) { c.Trading.Symbols = []string{"btcusdt"} }, "Symbols"},
		{"no symbols", func(c *Config) { c.Trading.Symbols = nil }, "Symbols"},
		{"zero stop loss", func(c *Config) { c.Risk.StopLossPct = 0 }, "StopLossPct"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
		{"binance without url", func(c *Config) { c.DataSource.BaseURL = "" }, "base_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
