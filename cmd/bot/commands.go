package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"CryptoSentinel/internal/backtest"
	"CryptoSentinel/internal/metrics"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/scheduler"
	"CryptoSentinel/internal/server"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled analysis cycle and the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	analyzeCmd = &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Print the current signal and trade plan as JSON",
		Long:  `Fetches history, backtests it for a sizing prior, scores the latest candle and prints the report. Defaults to the first configured symbol.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}
	backtestCmd = &cobra.Command{
		Use:   "backtest [symbol...]",
		Short: "Backtest the signal logic and print the results as JSON",
		Long:  `Fetches history for each symbol (default: all configured symbols) and replays the scorer over it.`,
		RunE:  runBacktest,
	}
	withTrades bool
)

func init() {
	backtestCmd.Flags().BoolVar(&withTrades, "trades", false, "include individual trades in the output")
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("CryptoSentinel starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Deferred in reverse: the scheduler drains its cycles before the recorder closes.
	rec := newRecorder(cfg)
	defer rec.Close()
	met := metrics.New()

	sched := scheduler.NewScheduler(ctx, newCollector(cfg), newSimulator(cfg), rec, met, scheduler.Options{
		Symbols:     cfg.Trading.Symbols,
		Risk:        cfg.Risk,
		Parallelism: cfg.Schedule.Parallelism,
	}, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	var srv *server.Server
	errc := make(chan error, 1)
	if cfg.Server.Enabled {
		srv = server.NewServer(cfg.Server.Addr, sched, rec, met.Handler(), log)
		go func() { errc <- srv.Start() }()
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, executing analysis cycle now")
		sched.RunInBackground(scheduler.TriggerStart)
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("CryptoSentinel is running, press Ctrl+C to stop")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping")
	case err := <-errc:
		runErr = err
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}
	log.Info().Msg("CryptoSentinel stopped")
	return runErr
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	symbol := cfg.Trading.Symbols[0]
	if len(args) == 1 {
		symbol = strings.ToUpper(args[0])
	}

	sched := scheduler.NewScheduler(cmd.Context(), newCollector(cfg), newSimulator(cfg), recorder.NewNoopRecorder(), nil, scheduler.Options{
		Symbols: []string{symbol},
		Risk:    cfg.Risk,
	}, log)
	if err := sched.RunCycle(cmd.Context(), scheduler.TriggerManual); err != nil {
		return err
	}
	report, ok := sched.Latest(symbol)
	if !ok {
		return fmt.Errorf("no report produced for %s", symbol)
	}
	report.Backtest.Trades = nil
	return writeJSON(cmd.OutOrStdout(), report)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	symbols := cfg.Trading.Symbols
	if len(args) > 0 {
		symbols = make([]string, len(args))
		for i, a := range args {
			symbols[i] = strings.ToUpper(a)
		}
	}

	col := newCollector(cfg)
	series := make([]model.CandleSeries, 0, len(symbols))
	for _, sym := range symbols {
		m, err := col.Collect(cmd.Context(), sym)
		if err != nil {
			return err
		}
		series = append(series, m.Series)
	}

	results, err := newSimulator(cfg).RunAll(cmd.Context(), series, cfg.Schedule.Parallelism)
	if err != nil {
		return err
	}

	out := make(map[string]model.BacktestResult, len(results))
	var insufficient []string
	for i, res := range results {
		if res.Error == backtest.InsufficientDataReason {
			insufficient = append(insufficient, symbols[i])
		}
		if !withTrades {
			res.Trades = nil
		}
		out[symbols[i]] = res
	}
	if len(insufficient) > 0 {
		log.Warn().Strs("symbols", insufficient).Int("min_candles", backtest.MinCandles).Msg("not enough history to backtest")
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
