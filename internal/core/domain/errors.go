package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration (bad strategy name,
	// overlap >= chunk size, missing collection). Never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCollectionNotFound indicates the target vector collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrUpstreamTimeout indicates an upstream call exceeded its deadline.
	// Retried with bounded backoff at the calling stage.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrUpstreamUnavailable indicates a transient upstream failure
	// (connection refused, 5xx-class response, rate limit).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamFailure indicates retries against an upstream service were
	// exhausted, or the upstream rejected the request in a non-transient way.
	// Terminal for the request that hit it.
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrPersistence indicates a registry write or read failed.
	// Fatal for the ingestion that hit it; never leaves a partial record.
	ErrPersistence = errors.New("persistence failure")
)

// Transient reports whether an error is worth retrying: upstream timeouts and
// availability blips qualify, everything else (config errors, malformed
// requests, auth failures, exhausted retries) does not.
func Transient(err error) bool {
	return errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrUpstreamUnavailable)
}
