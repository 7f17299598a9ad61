package collector

import (
	"context"

	"AssetTracker/internal/model"
)

// QuoteSource fetches raw data for one ticker. Implementations must report
// transport and decode failures as errors, never as zero-valued data.
//
//go:generate mockgen -package=collector_test -destination=mock_source_test.go -source=source.go QuoteSource
type QuoteSource interface {
	// History returns daily rows for period in ascending time order.
	// No rows for the period is not an error.
	History(ctx context.Context, ticker string, period model.Period) ([]model.Bar, error)
	// FastQuote returns the last traded price and the previous close.
	FastQuote(ctx context.Context, ticker string) (model.FastQuote, error)
	Name() string
}
