package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"AdPulse/internal/domain/models"
	xhttp "AdPulse/pkg/http"
)

// HTTPServiceBase is the JSON transport shared by the ML and history clients.
// It never retries: a failed call is reported and the caller decides.
type HTTPServiceBase struct {
	client *xhttp.Client
}

// NewHTTPServiceBase builds a client for baseURL. A non-positive timeout
// falls back to 10s.
func NewHTTPServiceBase(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts = append([]xhttp.ClientOption{
		xhttp.WithBaseURL(baseURL),
		xhttp.WithTimeout(timeout),
		xhttp.WithHeader("User-Agent", "adpulse"),
	}, opts...)
	return &HTTPServiceBase{client: xhttp.NewClient(opts...)}
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	return b.do(ctx, xhttp.RequestOptions{Method: http.MethodPost, Path: path, Body: payload}, dest)
}

// GetJSON fetches `path` under baseURL with optional query parameters.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	return b.do(ctx, xhttp.RequestOptions{Method: http.MethodGet, Path: path, Query: query}, dest)
}

func (b *HTTPServiceBase) do(ctx context.Context, opts xhttp.RequestOptions, dest interface{}) error {
	if b.client == nil || b.client.BaseURL() == "" {
		return fmt.Errorf("%w: http client not initialized", models.ErrNetworkFailure)
	}
	if err := b.client.Do(ctx, opts, dest); err != nil {
		return classify(opts.Method, b.client.BaseURL()+opts.Path, err)
	}
	return nil
}

// classify maps transport errors onto the dashboard error taxonomy.
func classify(method, url string, err error) error {
	if errors.Is(err, xhttp.ErrDecode) {
		return fmt.Errorf("%w: %s %s: %v", models.ErrMalformedResponse, method, url, err)
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %s %s: %s", models.ErrNetworkFailure, method, url, serviceMessage(se))
	}
	return fmt.Errorf("%w: %s %s: %v", models.ErrNetworkFailure, method, url, err)
}

// serviceMessage prefers the {"error": "..."} text the ML service sends.
func serviceMessage(se *xhttp.StatusError) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(se.Body), &body); err == nil && body.Error != "" {
		return fmt.Sprintf("status %d: %s", se.Code, body.Error)
	}
	return se.Error()
}
