package model

import "errors"

// ErrorKind классифицирует ошибку для маппинга в HTTP статус.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindRateLimited   ErrorKind = "rate_limited"
	KindUpstream      ErrorKind = "upstream_failure"
	KindSerialization ErrorKind = "serialization_failure"
	KindInternal      ErrorKind = "internal"
)

// Application-wide standard errors
var (
	// Client input errors
	ErrTopicRequired = errors.New("topic is required")
	ErrTooManySlides = errors.New("too many slides requested")
	ErrTooFewSlides  = errors.New("at least one slide is required")
	ErrInvalidConfig = errors.New("invalid presentation config")
	ErrInvalidInput  = errors.New("invalid input data")

	ErrNotFound = errors.New("presentation not found")

	ErrRateLimited = errors.New("rate limit exceeded")

	// Upstream (generation backend) errors
	ErrGenerationFailed = errors.New("content generation failed")
	ErrMalformedReply   = errors.New("malformed generator reply")

	// Document / file errors
	ErrRenderFailed  = errors.New("presentation rendering failed")
	ErrStorageFailed = errors.New("presentation storage failed")
)

// KindOf returns the kind of err by walking its wrap chain.
// Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTopicRequired),
		errors.Is(err, ErrTooManySlides),
		errors.Is(err, ErrTooFewSlides),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrMalformedReply):
		return KindUpstream
	case errors.Is(err, ErrRenderFailed), errors.Is(err, ErrStorageFailed):
		return KindSerialization
	default:
		return KindInternal
	}
}
