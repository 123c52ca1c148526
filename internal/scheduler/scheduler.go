package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"CryptoSentinel/internal/backtest"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/logger"
	"CryptoSentinel/internal/metrics"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/strategy"
)

// Cycle triggers.
const (
	TriggerCron   = "cron"
	TriggerStart  = "start"
	TriggerManual = "manual"
)

// ErrCycleRunning is returned when a cycle is requested while one is in progress.
var ErrCycleRunning = errors.New("analysis cycle already running")

// Report is the output of one cycle for one symbol.
type Report struct {
	RunID       string                  `json:"run_id"`
	Symbol      string                  `json:"symbol"`
	Interval    string                  `json:"interval"`
	GeneratedAt time.Time               `json:"generated_at"`
	Signal      model.Signal            `json:"signal"`
	Levels      *strategy.Levels        `json:"levels"`
	Backtest    model.BacktestResult    `json:"backtest"`
	Prior       *model.PerformanceStats `json:"prior"`
}

// Options are the trading settings a Scheduler runs with.
type Options struct {
	Symbols     []string
	Risk        strategy.RiskParams
	Parallelism int
}

// Scheduler runs the analysis cycle on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Simulator *backtest.Simulator
	Recorder  recorder.Recorder
	Metrics   *metrics.Recorder
	Ctx       context.Context

	opts    Options
	log     zerolog.Logger
	cycleMu sync.Mutex
	bg      sync.WaitGroup

	mu     sync.RWMutex
	latest map[string]*Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sim *backtest.Simulator, rec recorder.Recorder, met *metrics.Recorder, opts Options, log zerolog.Logger) *Scheduler {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Simulator: sim,
		Recorder:  rec,
		Metrics:   met,
		Ctx:       ctx,
		opts:      opts,
		log:       logger.Component(log, "scheduler"),
		latest:    make(map[string]*Report),
	}
}

// Register adds the analysis cycle under the given cron expression (seconds field included).
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.scheduledCycle); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Strs("symbols", s.opts.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running cycles, scheduled or
// background, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.bg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

// RunInBackground starts a cycle in its own goroutine. Stop waits for it.
func (s *Scheduler) RunInBackground(trigger string) {
	s.bg.Go(func() {
		if err := s.RunCycle(s.Ctx, trigger); err != nil {
			s.log.Error().Err(err).Str("trigger", trigger).Msg("background cycle failed")
		}
	})
}

// Symbols returns the configured symbols.
func (s *Scheduler) Symbols() []string {
	return append([]string(nil), s.opts.Symbols...)
}

// Latest returns the most recent report for symbol.
func (s *Scheduler) Latest(symbol string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[symbol]
	return r, ok
}

func (s *Scheduler) scheduledCycle() {
	if err := s.RunCycle(s.Ctx, TriggerCron); err != nil {
		s.log.Error().Err(err).Msg("scheduled cycle failed")
	}
}

// RunCycle analyses every configured symbol, at most Parallelism at a time.
// A failing symbol does not stop the others; their errors are joined.
func (s *Scheduler) RunCycle(ctx context.Context, trigger string) error {
	if !s.cycleMu.TryLock() {
		return ErrCycleRunning
	}
	defer s.cycleMu.Unlock()

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("trigger", trigger).Logger()
	log.Info().Msg("running analysis cycle")

	var (
		g     errgroup.Group
		errMu sync.Mutex
		errs  []error
	)
	g.SetLimit(s.opts.Parallelism)
	for _, symbol := range s.opts.Symbols {
		g.Go(func() error {
			report, err := s.analyze(ctx, runID, symbol, log)
			if err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				errMu.Unlock()
				return nil
			}
			s.mu.Lock()
			s.latest[symbol] = report
			s.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if s.Metrics != nil {
		s.Metrics.RecordCycle(trigger, err)
	}
	if err != nil {
		return err
	}
	log.Info().Msg("analysis cycle finished")
	return nil
}

func (s *Scheduler) analyze(ctx context.Context, runID, symbol string, log zerolog.Logger) (*Report, error) {
	start := time.Now()
	log = log.With().Str("symbol", symbol).Logger()

	market, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		s.recordError("collect")
		return nil, err
	}

	bt := s.Simulator.RunFrame(market.Frame)
	if bt.Error != "" {
		log.Warn().Str("reason", bt.Error).Int("candles", len(market.Frame)).Msg("backtest skipped, sizing from strength estimate")
	}
	prior := bt.Stats()

	sig := strategy.Evaluate(market.Frame, prior)
	var levels *strategy.Levels
	if lv, ok := strategy.SimpleLevels(sig, s.opts.Risk); ok {
		levels = &lv
	}

	interval := market.Series.Interval
	if err := s.Recorder.RecordBacktest(&recorder.BacktestRun{
		RunID:    runID,
		Symbol:   symbol,
		Interval: interval,
		Candles:  len(market.Frame),
		Result:   bt,
	}); err != nil {
		s.recordError("record")
		log.Error().Err(err).Msg("record backtest")
	}
	if err := s.Recorder.RecordSignal(&recorder.SignalSnapshot{
		RunID:    runID,
		Symbol:   symbol,
		Interval: interval,
		Signal:   sig,
		Levels:   levels,
	}); err != nil {
		s.recordError("record")
		log.Error().Err(err).Msg("record signal")
	}

	if s.Metrics != nil {
		s.Metrics.RecordBacktest(symbol, bt)
		s.Metrics.RecordSignal(symbol, sig)
		s.Metrics.RecordDuration(symbol, time.Since(start))
	}

	evt := log.Info().
		Str("action", string(sig.Action)).
		Int("strength", sig.Strength).
		Float64("score", sig.Score).
		Float64("price", sig.Price).
		Int("backtest_trades", bt.TotalTrades).
		Float64("backtest_win_rate", bt.WinRate)
	if sig.Panic {
		evt = evt.Bool("panic", true).Bool("panic_reversal", sig.PanicReversal)
	}
	evt.Msg("signal generated")

	return &Report{
		RunID:       runID,
		Symbol:      symbol,
		Interval:    interval,
		GeneratedAt: time.Now().UTC(),
		Signal:      sig,
		Levels:      levels,
		Backtest:    bt,
		Prior:       prior,
	}, nil
}

func (s *Scheduler) recordError(stage string) {
	if s.Metrics != nil {
		s.Metrics.RecordError(stage)
	}
}
