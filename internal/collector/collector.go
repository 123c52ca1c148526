package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/logger"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/synth"
)

// MockFetcher returns deterministic candles for development and testing.
// Candles, when set, are returned as-is.
type MockFetcher struct {
	Price   float64
	Seed    int64
	Candles []model.Candle
	// Now pins the close time of the last generated candle; zero means time.Now.
	Now time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, interval string, limit int) ([]model.Candle, error) {
	if m.Candles != nil {
		return m.Candles, nil
	}
	step, err := IntervalDuration(interval)
	if err != nil {
		return nil, err
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	end := m.Now
	if end.IsZero() {
		end = time.Now().UTC().Truncate(step)
	}
	return synth.Retime(synth.RandomWalk(limit, price, 0.02, m.Seed), end, step), nil
}

var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  72 * time.Hour,
	"1w":  7 * 24 * time.Hour,
}

// IntervalDuration maps a kline interval code such as "4h" to its duration.
func IntervalDuration(interval string) (time.Duration, error) {
	d, ok := intervals[interval]
	if !ok {
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
	return d, nil
}

// Market is the collected candle history together with its indicator frame.
type Market struct {
	Series model.CandleSeries
	Frame  model.IndicatorFrame
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Interval string
	Limit    int
	Params   calculator.Params
	log      zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, interval string, limit int, params calculator.Params, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Interval: interval,
		Limit:    limit,
		Params:   params,
		log:      logger.Component(log, "collector").With().Str("source", fetcher.Name()).Logger(),
	}
}

// Collect fetches the candle history for symbol and computes all indicators.
func (c *Collector) Collect(ctx context.Context, symbol string) (*Market, error) {
	start := time.Now()
	candles, err := c.Fetcher.FetchCandles(ctx, symbol, c.Interval, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s candles: %w", symbol, err)
	}
	frame, err := calculator.Compute(candles, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute %s indicators: %w", symbol, err)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("candles", len(candles)).
		Dur("took", time.Since(start)).
		Msg("collected market data")

	return &Market{
		Series: model.CandleSeries{
			Symbol:    symbol,
			Interval:  c.Interval,
			Candles:   candles,
			FetchedAt: time.Now().UTC(),
		},
		Frame: frame,
	}, nil
}
