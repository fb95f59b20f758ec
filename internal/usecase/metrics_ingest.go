package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	pkgkafka "AdPulse/pkg/kafka"
)

// MetricsIngestHandler stores daily ad-metric records published to Kafka.
// A message is either one record or a JSON array of records.
type MetricsIngestHandler struct {
	topic   string
	store   domrepo.HistoryStore
	metrics domrepo.Metrics
}

func NewMetricsIngestHandler(topic string, store domrepo.HistoryStore, metrics domrepo.Metrics) *MetricsIngestHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &MetricsIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *MetricsIngestHandler) Topic() string { return h.topic }

func (h *MetricsIngestHandler) Handle(ctx context.Context, b []byte) error {
	records, err := DecodeRecords(b)
	if err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	err = h.store.StoreBatch(ctx, records)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}

	// ingest lag against the newest record day
	if day, err := records[len(records)-1].Day(); err == nil {
		h.metrics.RecordLatency("ingest_lag_seconds", time.Since(day).Seconds())
	}
	return nil
}

// DecodeRecords parses and validates one record or an array of records.
func DecodeRecords(b []byte) ([]models.HistoricalRecord, error) {
	b = bytes.TrimSpace(b)
	var records []models.HistoricalRecord
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
		}
	} else {
		var r models.HistoricalRecord
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
		}
		records = []models.HistoricalRecord{r}
	}

	for i, r := range records {
		if !r.Channel.Valid() {
			return nil, fmt.Errorf("%w: record %d: unknown channel %q", models.ErrMalformedResponse, i, r.Channel)
		}
		if _, err := r.Day(); err != nil {
			return nil, err
		}
		if r.Impressions < 0 || r.Clicks < 0 || r.Conversions < 0 || r.Spend < 0 || r.Revenue < 0 {
			return nil, fmt.Errorf("%w: record %d: negative counter", models.ErrMalformedResponse, i)
		}
	}
	return records, nil
}

var _ pkgkafka.MessageHandler = (*MetricsIngestHandler)(nil)
