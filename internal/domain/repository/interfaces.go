package repository

import (
	"context"
	"time"

	"StockLens/internal/domain/models"
)

// MarketDataProvider fetches daily bars for a symbol over [start, endExclusive).
// An unknown symbol or an empty range yields an empty table, not an error.
type MarketDataProvider interface {
	Fetch(ctx context.Context, symbol string, start, endExclusive time.Time, adjust bool) (*models.RawTable, error)
	Name() string
}

type EventPublisher interface {
	PublishAnalysis(ctx context.Context, ev *models.AnalysisEvent) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(kind, outcome string)
	RecordError(kind string)
	RecordBarsFetched(provider string, n int)
	RecordLatency(op string, seconds float64)
}
