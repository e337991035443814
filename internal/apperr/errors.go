// Package apperr defines the error taxonomy shared by services and transports.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConfiguration marks a missing or unusable operator setting (e.g. the
	// upstream credential). Never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstreamUnavailable covers transport failures and non-2xx replies from
	// the generative model.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrStorageUnavailable is returned by the store for anything other than a
	// plain miss. Callers degrade instead of surfacing it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
