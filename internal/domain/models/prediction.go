package models

import (
	"fmt"
	"time"
)

// PredictionPoint is one forecast day. Every numeric field is optional on the
// wire; nil means the service did not send it.
type PredictionPoint struct {
	Date       string   `json:"date"`
	CTR        *float64 `json:"ctr,omitempty"`
	CR         *float64 `json:"cr,omitempty"`
	CPC        *float64 `json:"cpc,omitempty"`
	Spend      *float64 `json:"spend,omitempty"`
	CTRUpper   *float64 `json:"ctr_upper,omitempty"`
	CTRLower   *float64 `json:"ctr_lower,omitempty"`
	SpendUpper *float64 `json:"spend_upper,omitempty"`
	SpendLower *float64 `json:"spend_lower,omitempty"`
}

// Day parses the point date.
func (p PredictionPoint) Day() (time.Time, error) {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: prediction date %q", ErrMalformedResponse, p.Date)
	}
	return t, nil
}

// Value returns the point estimate for m.
func (p PredictionPoint) Value(m Metric) *float64 {
	switch m {
	case MetricCTR:
		return p.CTR
	case MetricCR:
		return p.CR
	case MetricCPC:
		return p.CPC
	case MetricSpend:
		return p.Spend
	default:
		return nil
	}
}

// Bounds returns the model-supplied interval for m. Either side may be nil.
func (p PredictionPoint) Bounds(m Metric) (lower, upper *float64) {
	switch m {
	case MetricCTR:
		return p.CTRLower, p.CTRUpper
	case MetricSpend:
		return p.SpendLower, p.SpendUpper
	default:
		return nil, nil
	}
}

type PredictionRequest struct {
	HistoricalData []HistoricalRecord `json:"historical_data"`
	DaysAhead      int                `json:"days_ahead"`
}

type PredictionResponse struct {
	DaysAhead   int               `json:"days_ahead"`
	Predictions []PredictionPoint `json:"predictions"`
}

type ModelAccuracy struct {
	CTRMAE   *float64 `json:"ctr_mae,omitempty"`
	SpendMAE *float64 `json:"spend_mae,omitempty"`
	CRMAE    *float64 `json:"cr_mae,omitempty"`
	CPCMAE   *float64 `json:"cpc_mae,omitempty"`
}

type ModelStats struct {
	ModelTrained      bool               `json:"model_trained"`
	LastTrained       string             `json:"last_trained,omitempty"`
	Accuracy          ModelAccuracy      `json:"accuracy"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
}

// FeatureWeight is one entry of a sorted feature importance list.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

type TrainResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	LastTrained string `json:"last_trained,omitempty"`
	DataPoints  int    `json:"data_points"`
}

type Recommendation struct {
	Type     string `json:"type"` // positive, warning, negative, info
	Message  string `json:"message"`
	Priority string `json:"priority"` // high, medium, low
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	DaysAhead       int              `json:"days_ahead"`
}

type ServiceHealth struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	LastTrained string `json:"last_trained,omitempty"`
}
