package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/backtest"
	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/metrics"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/strategy"
)

// stubFetcher serves a mock walk, fails for symbols in fail and optionally
// blocks until release is closed.
type stubFetcher struct {
	mock    collector.MockFetcher
	fail    map[string]bool
	entered chan struct{}
	release chan struct{}
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.fail[symbol] {
		return nil, errors.New("exchange unavailable")
	}
	return f.mock.FetchCandles(ctx, symbol, interval, limit)
}

func newScheduler(t *testing.T, f collector.Fetcher, rec recorder.Recorder, symbols ...string) *Scheduler {
	t.Helper()
	params := calculator.DefaultParams()
	col := collector.NewCollector(f, "1h", 400, params, zerolog.Nop())
	return NewScheduler(context.Background(), col, backtest.New(params), rec, metrics.New(), Options{
		Symbols:     symbols,
		Risk:        strategy.DefaultRiskParams(),
		Parallelism: 2,
	}, zerolog.Nop())
}

func mockFetcher() *stubFetcher {
	return &stubFetcher{mock: collector.MockFetcher{Price: 100, Seed: 42, Now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}}
}

func TestRunCycle_StoresReports(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	rec, err := recorder.NewSQLiteRecorder(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	s := newScheduler(t, mockFetcher(), rec, "BTCUSDT", "ETHUSDT", "SOLUSDT")
	_, ok := s.Latest("BTCUSDT")
	require.False(t, ok)

	require.NoError(t, s.RunCycle(context.Background(), TriggerManual))

	var runID string
	for _, sym := range s.Symbols() {
		r, ok := s.Latest(sym)
		require.True(t, ok, sym)
		assert.Equal(t, sym, r.Symbol)
		assert.Equal(t, "1h", r.Interval)
		assert.Empty(t, r.Backtest.Error)
		assert.NotEmpty(t, r.RunID)
		if runID == "" {
			runID = r.RunID
		}
		assert.Equal(t, runID, r.RunID, "one run id per cycle")

		if r.Signal.Action.Actionable() {
			assert.NotNil(t, r.Signal.TradePlan)
			assert.NotNil(t, r.Levels)
		} else {
			assert.Nil(t, r.Levels)
		}
		if r.Prior != nil {
			assert.Equal(t, r.Backtest.WinRate, r.Prior.WinRate)
		}

		hist, err := rec.RecentSignals(sym, 5)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, runID, hist[0].RunID)
		assert.Equal(t, r.Signal.Action, hist[0].Action)
	}
}

func TestRunCycle_PartialFailure(t *testing.T) {
	f := mockFetcher()
	f.fail = map[string]bool{"BADUSDT": true}
	s := newScheduler(t, f, recorder.NewNoopRecorder(), "BTCUSDT", "BADUSDT")

	err := s.RunCycle(context.Background(), TriggerManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BADUSDT")
	assert.Contains(t, err.Error(), "exchange unavailable")

	_, ok := s.Latest("BTCUSDT")
	assert.True(t, ok)
	_, ok = s.Latest("BADUSDT")
	assert.False(t, ok)
}

func TestRunCycle_RejectsOverlap(t *testing.T) {
	f := mockFetcher()
	f.entered = make(chan struct{}, 1)
	f.release = make(chan struct{})
	s := newScheduler(t, f, recorder.NewNoopRecorder(), "BTCUSDT")

	done := make(chan error, 1)
	go func() { done <- s.RunCycle(context.Background(), TriggerCron) }()
	<-f.entered

	assert.ErrorIs(t, s.RunCycle(context.Background(), TriggerManual), ErrCycleRunning)

	close(f.release)
	require.NoError(t, <-done)
}

func TestStop_WaitsForBackgroundCycle(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)

	f := mockFetcher()
	f.entered = make(chan struct{}, 1)
	f.release = make(chan struct{})
	s := newScheduler(t, f, rec, "BTCUSDT")
	s.Start()
	s.RunInBackground(TriggerStart)
	<-f.entered

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup cycle was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(f.release)
	<-stopped
	hist, err := rec.RecentSignals("BTCUSDT", 5)
	require.NoError(t, err)
	assert.Len(t, hist, 1, "cycle finished writing before the recorder closed")
	require.NoError(t, rec.Close())
}

func TestRunCycle_ShortHistoryStillSignals(t *testing.T) {
	f := &stubFetcher{mock: collector.MockFetcher{Price: 100, Seed: 1, Now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}}
	params := calculator.DefaultParams()
	col := collector.NewCollector(f, "1h", 120, params, zerolog.Nop())
	s := NewScheduler(context.Background(), col, backtest.New(params), recorder.NewNoopRecorder(), nil,
		Options{Symbols: []string{"BTCUSDT"}, Risk: strategy.DefaultRiskParams()}, zerolog.Nop())

	require.NoError(t, s.RunCycle(context.Background(), TriggerStart))
	r, ok := s.Latest("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, backtest.InsufficientDataReason, r.Backtest.Error)
	assert.Nil(t, r.Prior)
	assert.Positive(t, r.Signal.Price)
	if r.Signal.TradePlan != nil {
		assert.Equal(t, "strength estimate (no backtest)", r.Signal.TradePlan.PositionSizing.KellySource)
	}
}

func TestRegister(t *testing.T) {
	s := newScheduler(t, mockFetcher(), recorder.NewNoopRecorder(), "BTCUSDT")
	assert.NoError(t, s.Register("0 0 */4 * * *"))
	assert.Error(t, s.Register("every four hours"))
	assert.Len(t, s.Cron.Entries(), 1)
}
