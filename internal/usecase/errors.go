package usecase

import (
	"context"
	"errors"

	"AdPulse/internal/domain/models"
)

// ErrorKind buckets an error for metrics labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrInvalidPeriod):
		return "invalid_period"
	case errors.Is(err, models.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, models.ErrNetworkFailure):
		return "network_failure"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// nopMetrics is used when no recorder is wired.
type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, string)  {}
func (nopMetrics) RecordDiscard(string)          {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}
