package service

import (
	"context"
	"io"

	"AdPulse/internal/domain/models"
)

// Predictor is the remote ML service.
type Predictor interface {
	Predict(ctx context.Context, history []models.HistoricalRecord, daysAhead int) (models.PredictionResponse, error)
	Stats(ctx context.Context) (models.ModelStats, error)
	Train(ctx context.Context, history []models.HistoricalRecord) (models.TrainResult, error)
	Recommendations(ctx context.Context, history []models.HistoricalRecord, daysAhead int) (models.RecommendationsResponse, error)
	Health(ctx context.Context) (models.ServiceHealth, error)
}

// Renderer draws traces. Implementations must not mutate the traces.
type Renderer interface {
	Render(w io.Writer, traces []models.Trace, opts models.RenderOptions) error
}
