package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"AdPulse/internal/domain/models"
)

var errServiceDown = errors.Join(models.ErrNetworkFailure, errors.New("connection refused"))

type recordingMetrics struct {
	mu        sync.Mutex
	refreshes int
	discards  map[string]int
	errors    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{discards: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordRefresh(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
}

func (m *recordingMetrics) RecordDiscard(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discards[slot]++
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *recordingMetrics) RecordLatency(string, float64) {}

func (m *recordingMetrics) discarded(slot string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discards[slot]
}

// gatedPredictor blocks the n-th Predict call until gates[n] is closed.
type gatedPredictor struct {
	mu        sync.Mutex
	calls     int
	gates     []chan struct{}
	responses []models.PredictionResponse
	started   chan int

	stats      models.ModelStats
	statsCalls int
	statsErr   error
	predictErr error
	trainCalls int
	trainSent  int
}

func newGatedPredictor(responses ...models.PredictionResponse) *gatedPredictor {
	p := &gatedPredictor{responses: responses, started: make(chan int, len(responses)+1)}
	for range responses {
		p.gates = append(p.gates, make(chan struct{}))
	}
	return p
}

func (p *gatedPredictor) Predict(ctx context.Context, _ []models.HistoricalRecord, _ int) (models.PredictionResponse, error) {
	if p.predictErr != nil {
		return models.PredictionResponse{}, p.predictErr
	}
	p.mu.Lock()
	i := p.calls
	p.calls++
	p.mu.Unlock()
	if i >= len(p.gates) {
		return p.responses[len(p.responses)-1], nil
	}

	p.started <- i
	select {
	case <-p.gates[i]:
	case <-ctx.Done():
		return models.PredictionResponse{}, ctx.Err()
	}
	return p.responses[i], nil
}

func (p *gatedPredictor) Stats(context.Context) (models.ModelStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statsCalls++
	return p.stats, p.statsErr
}

func (p *gatedPredictor) Train(_ context.Context, h []models.HistoricalRecord) (models.TrainResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trainCalls++
	p.trainSent = len(h)
	return models.TrainResult{Status: "success", DataPoints: len(h)}, nil
}

func (p *gatedPredictor) Recommendations(context.Context, []models.HistoricalRecord, int) (models.RecommendationsResponse, error) {
	return models.RecommendationsResponse{
		Recommendations: []models.Recommendation{{Type: "info", Message: "steady", Priority: "low"}},
	}, nil
}

func (p *gatedPredictor) Health(context.Context) (models.ServiceHealth, error) {
	return models.ServiceHealth{Status: "healthy", ModelLoaded: true}, nil
}

type staticHistory struct {
	records []models.HistoricalRecord
	err     error
}

func (h staticHistory) Records(context.Context, time.Time, time.Time) ([]models.HistoricalRecord, error) {
	return h.records, h.err
}

type memoryStore struct {
	mu      sync.Mutex
	records []models.HistoricalRecord
	err     error
}

func (s *memoryStore) Records(_ context.Context, ch models.Channel, _, _ time.Time) ([]models.HistoricalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HistoricalRecord
	for _, r := range s.records {
		if r.Channel == ch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) StoreBatch(_ context.Context, records []models.HistoricalRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *memoryStore) Health(context.Context) error { return nil }

type capturedEvent struct {
	kind    string
	payload any
}

type eventSink struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (s *eventSink) PublishEvent(_ context.Context, kind string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, capturedEvent{kind, payload})
	return nil
}

func (s *eventSink) Close() error { return nil }

func ptr(v float64) *float64 { return &v }

func sampleHistory() []models.HistoricalRecord {
	return []models.HistoricalRecord{
		{Date: "2025-03-14", Channel: models.ChannelWildberries, Impressions: 10000, Clicks: 300, Conversions: 6, Spend: 6600, Revenue: 10000},
		{Date: "2025-03-15", Channel: models.ChannelOzon, Impressions: 8000, Clicks: 200, Conversions: 4, Spend: 5000, Revenue: 7000},
	}
}
