package repository

import (
	"context"
	"time"

	"AdPulse/internal/domain/models"
)

// SeriesProvider produces the primary counters for both channels over a
// resolved date sequence. The synthetic generator and the historical source
// are interchangeable implementations.
type SeriesProvider interface {
	Provide(ctx context.Context, p models.Period, dates []time.Time) (*models.MetricSet, error)
}

// HistorySource returns daily records for one channel in [from, to).
type HistorySource interface {
	Records(ctx context.Context, ch models.Channel, from, to time.Time) ([]models.HistoricalRecord, error)
}

// HistoryStore is a writable HistorySource.
type HistoryStore interface {
	HistorySource
	StoreBatch(ctx context.Context, records []models.HistoricalRecord) error
	Health(ctx context.Context) error
}

// EventPublisher emits dashboard lifecycle events (training finished, ...).
type EventPublisher interface {
	PublishEvent(ctx context.Context, kind string, payload any) error
	Close() error
}

type Metrics interface {
	RecordRefresh(period, source string)
	RecordDiscard(slot string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
