package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/scheduler"
	"CryptoSentinel/internal/strategy"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	symbols []string
	reports map[string]*scheduler.Report
	runErr  error
	runs    int
}

func (f *fakeAnalyzer) RunCycle(_ context.Context, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	if f.runErr != nil {
		return f.runErr
	}
	for _, sym := range f.symbols {
		f.reports[sym] = &scheduler.Report{
			RunID:    "run-" + sym,
			Symbol:   sym,
			Interval: "1h",
			Signal:   model.Signal{Action: model.ActionBuy, Strength: 4, Score: 66},
			Levels:   &strategy.Levels{StopLoss: 98, TakeProfit: 104, RiskReward: 2},
			Backtest: model.BacktestResult{TotalTrades: 12, WinRate: 58.3, EquityCurve: []float64{10000}},
		}
	}
	return nil
}

func (f *fakeAnalyzer) Latest(symbol string) (*scheduler.Report, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[symbol]
	return r, ok
}

func (f *fakeAnalyzer) Symbols() []string { return f.symbols }

type fakeHistory struct {
	gotSymbol string
	gotLimit  int
	err       error
}

func (h *fakeHistory) RecentSignals(symbol string, limit int) ([]recorder.SignalRecord, error) {
	h.gotSymbol, h.gotLimit = symbol, limit
	if h.err != nil {
		return nil, h.err
	}
	return []recorder.SignalRecord{{RunID: "r1", Symbol: symbol, Action: model.ActionHold}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer() (*Server, *fakeAnalyzer, *fakeHistory) {
	a := &fakeAnalyzer{symbols: []string{"BTCUSDT", "ETHUSDT"}, reports: map[string]*scheduler.Report{}}
	h := &fakeHistory{}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("crypto_sentinel_cycles_total 1\n"))
	})
	return NewServer(":0", a, h, metrics, zerolog.Nop()), a, h
}

func do(t *testing.T, s *Server, method, target string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, []any{"BTCUSDT", "ETHUSDT"}, body["symbols"])
}

func TestSignalBeforeFirstCycle(t *testing.T) {
	s, _, _ := newTestServer()
	code, env := do(t, s, http.MethodGet, "/signal")
	assert.Equal(t, http.StatusNotFound, code)
	assert.True(t, env.Error)
	assert.Contains(t, env.Message, "BTCUSDT")

	code, _ = do(t, s, http.MethodGet, "/backtest?symbol=ETHUSDT")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTriggerThenRead(t *testing.T) {
	s, a, _ := newTestServer()

	code, env := do(t, s, http.MethodPost, "/trigger")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, a.runs)

	var summary []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Len(t, summary, 2)
	assert.Equal(t, "BUY", summary[0]["action"])

	code, env = do(t, s, http.MethodGet, "/signal?symbol=ETHUSDT")
	require.Equal(t, http.StatusOK, code)
	var sig struct {
		RunID  string           `json:"run_id"`
		Signal model.Signal     `json:"signal"`
		Levels *strategy.Levels `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sig))
	assert.Equal(t, "run-ETHUSDT", sig.RunID)
	assert.Equal(t, model.ActionBuy, sig.Signal.Action)
	require.NotNil(t, sig.Levels)
	assert.Equal(t, 2.0, sig.Levels.RiskReward)

	code, env = do(t, s, http.MethodGet, "/backtest")
	require.Equal(t, http.StatusOK, code)
	var bt struct {
		Symbol   string               `json:"symbol"`
		Backtest model.BacktestResult `json:"backtest"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bt))
	assert.Equal(t, "BTCUSDT", bt.Symbol)
	assert.Equal(t, 12, bt.Backtest.TotalTrades)
}

func TestTriggerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"already running", scheduler.ErrCycleRunning, http.StatusConflict},
		{"wrapped running", errors.Join(scheduler.ErrCycleRunning), http.StatusConflict},
		{"failure", errors.New("BTCUSDT: exchange unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a, _ := newTestServer()
			a.runErr = tt.err
			code, env := do(t, s, http.MethodPost, "/trigger")
			assert.Equal(t, tt.status, code)
			assert.True(t, env.Error)
		})
	}
}

func TestSymbolValidation(t *testing.T) {
	s, a, _ := newTestServer()
	require.NoError(t, a.RunCycle(context.Background(), "test"))

	code, _ := do(t, s, http.MethodGet, "/signal?symbol=btcusdt")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, s, http.MethodGet, "/signal?symbol=DOGEUSDT")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "not configured")
}

func TestHistory(t *testing.T) {
	s, _, h := newTestServer()

	code, env := do(t, s, http.MethodGet, "/history?symbol=ETHUSDT&limit=5")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ETHUSDT", h.gotSymbol)
	assert.Equal(t, 5, h.gotLimit)
	var recs []recorder.SignalRecord
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "r1", recs[0].RunID)

	code, _ = do(t, s, http.MethodGet, "/history?limit=0")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "BTCUSDT", h.gotSymbol)

	code, _ = do(t, s, http.MethodGet, "/history?limit=9999")
	assert.Equal(t, http.StatusBadRequest, code)

	h.err = errors.New("disk I/O error")
	code, env = do(t, s, http.MethodGet, "/history")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to read history", env.Message)
}

func TestMetricsRoute(t *testing.T) {
	s, _, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crypto_sentinel_cycles_total")
}

func TestStartShutdown(t *testing.T) {
	s, _, _ := newTestServer()
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-errc)
}
