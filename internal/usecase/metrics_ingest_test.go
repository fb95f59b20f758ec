package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

func TestIngestSingleAndBatch(t *testing.T) {
	store := &memoryStore{}
	h := NewMetricsIngestHandler("ad_metrics", store, newRecordingMetrics())
	assert.Equal(t, "ad_metrics", h.Topic())
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []byte(`{"date":"2025-03-01","channel":"ozon","impressions":100,"clicks":5,"conversions":1,"spend":50,"revenue":90}`)))
	require.NoError(t, h.Handle(ctx, []byte(` [{"date":"2025-03-02","channel":"wildberries","clicks":3},{"date":"2025-03-02","channel":"ozon","clicks":4}]`)))
	require.NoError(t, h.Handle(ctx, []byte(`[]`)))

	recs, err := store.Records(ctx, models.ChannelOzon, testNow, testNow)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestIngestRejectsBadRecords(t *testing.T) {
	m := newRecordingMetrics()
	h := NewMetricsIngestHandler("ad_metrics", &memoryStore{}, m)
	ctx := context.Background()

	for _, body := range []string{
		`{not json`,
		`{"date":"2025-03-01","channel":"amazon"}`,
		`{"date":"03/01/2025","channel":"ozon"}`,
		`{"date":"2025-03-01","channel":"ozon","spend":-1}`,
	} {
		err := h.Handle(ctx, []byte(body))
		assert.ErrorIs(t, err, models.ErrMalformedResponse, body)
	}
	assert.Equal(t, 4, m.errors["consumer_unmarshal"])
}

func TestIngestStoreFailure(t *testing.T) {
	m := newRecordingMetrics()
	h := NewMetricsIngestHandler("ad_metrics", &memoryStore{err: errors.New("clickhouse down")}, m)
	err := h.Handle(context.Background(), []byte(`{"date":"2025-03-01","channel":"ozon"}`))
	assert.Error(t, err)
	assert.Equal(t, 1, m.errors["consumer_store"])
}
