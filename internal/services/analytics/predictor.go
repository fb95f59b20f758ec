package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"AdPulse/internal/domain/models"
	domsvc "AdPulse/internal/domain/service"
	xhttp "AdPulse/pkg/http"
)

// HTTPPredictor talks to the ML prediction service.
type HTTPPredictor struct {
	base *HTTPServiceBase
}

var _ domsvc.Predictor = (*HTTPPredictor)(nil)

func NewHTTPPredictor(base *HTTPServiceBase) *HTTPPredictor {
	return &HTTPPredictor{base: base}
}

type predictResponse struct {
	DaysAhead   int                       `json:"days_ahead"`
	Predictions *[]models.PredictionPoint `json:"predictions"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, history []models.HistoricalRecord, daysAhead int) (models.PredictionResponse, error) {
	var out models.PredictionResponse
	var pr predictResponse
	req := models.PredictionRequest{HistoricalData: nonNil(history), DaysAhead: daysAhead}
	if err := p.base.PostJSON(ctx, "/api/predict", req, &pr); err != nil {
		return out, err
	}
	if pr.Predictions == nil {
		return out, fmt.Errorf("%w: predict: missing predictions", models.ErrMalformedResponse)
	}
	for _, pt := range *pr.Predictions {
		if _, err := pt.Day(); err != nil {
			return out, fmt.Errorf("predict: %w", err)
		}
	}
	out.DaysAhead = pr.DaysAhead
	out.Predictions = *pr.Predictions
	return out, nil
}

type statsResponse struct {
	ModelTrained      *bool                `json:"model_trained"`
	LastTrained       *string              `json:"last_trained"`
	Accuracy          models.ModelAccuracy `json:"accuracy"`
	FeatureImportance map[string]float64   `json:"feature_importance"`
}

func (p *HTTPPredictor) Stats(ctx context.Context) (models.ModelStats, error) {
	var sr statsResponse
	if err := p.base.GetJSON(ctx, "/api/model-stats", nil, &sr); err != nil {
		return models.ModelStats{}, err
	}
	if sr.ModelTrained == nil {
		return models.ModelStats{}, fmt.Errorf("%w: model-stats: missing model_trained", models.ErrMalformedResponse)
	}
	st := models.ModelStats{
		ModelTrained:      *sr.ModelTrained,
		Accuracy:          sr.Accuracy,
		FeatureImportance: sr.FeatureImportance,
	}
	if sr.LastTrained != nil {
		st.LastTrained = *sr.LastTrained
	}
	return st, nil
}

func (p *HTTPPredictor) Train(ctx context.Context, history []models.HistoricalRecord) (models.TrainResult, error) {
	var tr models.TrainResult
	body := struct {
		HistoricalData []models.HistoricalRecord `json:"historical_data"`
	}{HistoricalData: nonNil(history)}
	if err := p.base.PostJSON(ctx, "/api/train", body, &tr); err != nil {
		return tr, err
	}
	if tr.Status == "" {
		return tr, fmt.Errorf("%w: train: missing status", models.ErrMalformedResponse)
	}
	return tr, nil
}

type recommendationsResponse struct {
	Recommendations *[]models.Recommendation `json:"recommendations"`
	DaysAhead       int                      `json:"days_ahead"`
}

func (p *HTTPPredictor) Recommendations(ctx context.Context, history []models.HistoricalRecord, daysAhead int) (models.RecommendationsResponse, error) {
	var rr recommendationsResponse
	req := models.PredictionRequest{HistoricalData: nonNil(history), DaysAhead: daysAhead}
	if err := p.base.PostJSON(ctx, "/api/recommendations", req, &rr); err != nil {
		return models.RecommendationsResponse{}, err
	}
	if rr.Recommendations == nil {
		return models.RecommendationsResponse{}, fmt.Errorf("%w: recommendations: missing recommendations", models.ErrMalformedResponse)
	}
	return models.RecommendationsResponse{Recommendations: *rr.Recommendations, DaysAhead: rr.DaysAhead}, nil
}

func (p *HTTPPredictor) Health(ctx context.Context) (models.ServiceHealth, error) {
	var raw json.RawMessage
	if err := p.base.GetJSON(ctx, "/api/health", nil, &raw); err != nil {
		return models.ServiceHealth{}, err
	}
	var h models.ServiceHealth
	if err := json.Unmarshal(raw, &h); err != nil || h.Status == "" {
		return models.ServiceHealth{}, fmt.Errorf("%w: health: %s", models.ErrMalformedResponse, string(raw))
	}
	return h, nil
}

func nonNil(h []models.HistoricalRecord) []models.HistoricalRecord {
	if h == nil {
		return []models.HistoricalRecord{}
	}
	return h
}

// NewPredictorFromURL is a convenience for callers without a shared base.
func NewPredictorFromURL(baseURL string, opts ...xhttp.ClientOption) *HTTPPredictor {
	return NewHTTPPredictor(NewHTTPServiceBase(baseURL, 0, opts...))
}
