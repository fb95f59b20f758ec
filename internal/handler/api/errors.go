package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/service/metrics"
	"AdPulse/internal/usecase"
	xhttp "AdPulse/pkg/http"
	"AdPulse/pkg/queue"
)

var registerOnce sync.Once

// registerValidators installs the domain validation tags used by request DTOs.
func registerValidators() {
	registerOnce.Do(func() {
		metrics.Register()
		_ = xhttp.RegisterValidation("period", func(fl validator.FieldLevel) bool {
			_, err := models.ParsePeriod(fl.Field().String())
			return err == nil
		})
	})
}

// toAppError maps the error taxonomy onto HTTP statuses.
func toAppError(endpoint string, err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var out *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrInvalidPeriod):
		out = xhttp.NewAppError("ERR_INVALID_PERIOD", "period", err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrMalformedResponse):
		out = xhttp.BadGatewayError("ERR_MALFORMED_RESPONSE", err.Error())
	case errors.Is(err, models.ErrNetworkFailure):
		out = xhttp.BadGatewayError("ERR_NETWORK_FAILURE", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		out = xhttp.NewAppError("ERR_TIMEOUT", "", "upstream call timed out", http.StatusGatewayTimeout)
	case errors.Is(err, usecase.ErrQueueDisabled):
		out = xhttp.ServiceUnavailableError(err.Error())
	case errors.Is(err, queue.ErrNotFound):
		out = xhttp.NotFoundError(err.Error())
	default:
		out = xhttp.InternalError("Something went wrong")
	}
	metrics.APIErrors.WithLabelValues(endpoint, out.Code).Inc()
	return out.WithError(err)
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func rateLimited(retryAfter time.Duration) *xhttp.AppError {
	secs := int(math.Ceil(retryAfter.Seconds()))
	return xhttp.TooManyRequestsError("too many training requests").WithParam("retry_after", max(secs, 1))
}
