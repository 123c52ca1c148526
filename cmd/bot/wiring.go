package main

import (
	"time"

	"CryptoSentinel/internal/backtest"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/recorder"
)

func newFetcher(c *config.Config) collector.Fetcher {
	if c.DataSource.Provider == "mock" {
		return &collector.MockFetcher{Price: 100, Seed: 1}
	}
	timeout := time.Duration(c.DataSource.Timeout) * time.Second
	return collector.NewBinanceFetcher(c.DataSource.BaseURL, c.Proxy, timeout)
}

func newCollector(c *config.Config) *collector.Collector {
	fetcher := newFetcher(c)
	log.Info().Str("source", fetcher.Name()).Str("interval", c.Trading.Interval).Msg("data source ready")
	return collector.NewCollector(fetcher, c.Trading.Interval, c.Trading.HistoryLimit, c.Indicators, log)
}

func newSimulator(c *config.Config) *backtest.Simulator {
	return backtest.New(c.Indicators)
}

// newRecorder opens the SQLite history, falling back to a no-op recorder
// when no path is configured or the database cannot be opened.
func newRecorder(c *config.Config) recorder.Recorder {
	if c.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
