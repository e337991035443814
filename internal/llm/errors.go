package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured.
	ErrMissingCredential = errors.New("llm: api key is not configured")
	ErrTransport         = errors.New("llm: transport error")
	ErrMalformedEnvelope = errors.New("llm: malformed response envelope")
)

// StatusError is a non-2xx reply (or an in-band error object) from the provider.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm: HTTP %d: %s", e.StatusCode, e.Body)
}

// Detail returns the most useful provider-facing description of err.
func Detail(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return se.Body
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
