package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/model"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorder_Exposition(t *testing.T) {
	r := New()
	r.RecordCycle("cron", nil)
	r.RecordCycle("http", errors.New("boom"))
	r.RecordSignal("BTCUSDT", model.Signal{Action: model.ActionBuy, Strength: 4, Score: 71.5, Price: 64000})
	r.RecordBacktest("BTCUSDT", model.BacktestResult{WinRate: 55.5, TotalTrades: 9, TotalReturn: 3.2})
	r.RecordBacktest("ETHUSDT", model.BacktestResult{Error: "insufficient data"})
	r.RecordDuration("BTCUSDT", 300*time.Millisecond)

	body := scrape(t, r)

	assert.Contains(t, body, `crypto_sentinel_cycles_total{status="ok",trigger="cron"} 1`)
	assert.Contains(t, body, `crypto_sentinel_cycles_total{status="error",trigger="http"} 1`)
	assert.Contains(t, body, `crypto_sentinel_signals_total{action="BUY",symbol="BTCUSDT"} 1`)
	assert.Contains(t, body, `crypto_sentinel_signal_score{symbol="BTCUSDT"} 71.5`)
	assert.Contains(t, body, `crypto_sentinel_signal_strength{symbol="BTCUSDT"} 4`)
	assert.Contains(t, body, `crypto_sentinel_backtest_win_rate_percent{symbol="BTCUSDT"} 55.5`)
	assert.Contains(t, body, `crypto_sentinel_backtest_trades{symbol="BTCUSDT"} 9`)
	assert.Contains(t, body, `crypto_sentinel_errors_total{stage="backtest"} 1`)
	assert.NotContains(t, body, `crypto_sentinel_backtest_win_rate_percent{symbol="ETHUSDT"}`)
	assert.Contains(t, body, `crypto_sentinel_symbol_analysis_duration_seconds_count{symbol="BTCUSDT"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordError("collect")

	assert.Contains(t, scrape(t, a), `crypto_sentinel_errors_total{stage="collect"} 1`)
	assert.NotContains(t, scrape(t, b), `stage="collect"`)
}
