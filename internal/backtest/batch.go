package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"CryptoSentinel/internal/model"
)

// RunAll simulates independent series concurrently, at most limit at a time
// (limit <= 0 means unbounded). Results are returned in input order; the first
// error cancels the remaining runs.
func (s *Simulator) RunAll(ctx context.Context, series []model.CandleSeries, limit int) ([]model.BacktestResult, error) {
	results := make([]model.BacktestResult, len(series))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cs := range series {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Run(cs.Candles)
			if err != nil {
				return fmt.Errorf("backtest %s: %w", cs.Symbol, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
