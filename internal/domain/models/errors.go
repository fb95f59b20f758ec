package models

import "errors"

// Error taxonomy shared by every layer. Callers wrap these with context and
// match them with errors.Is.
var (
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrNetworkFailure    = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrMisaligned        = errors.New("series length does not match date sequence")
)
