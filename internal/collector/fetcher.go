package collector

import (
	"context"

	"CryptoSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchCandles returns up to limit closed candles for symbol, oldest first.
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}
