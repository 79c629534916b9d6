package erkc

import "fmt"

// AuthError means the portal rejected the credentials or the session
// could not be re-established. Not retryable beyond the single
// refresh-and-retry cycle built into the client.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// RequestError is a transport or HTTP level failure. Transient ones
// (timeout, connection reset, 5xx) are retried by the executor before
// surfacing.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %s", e.Err.Error())
	}
	return fmt.Sprintf("request failed: portal returned status %d", e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError means the expected markup structure is absent. This is a
// portal layout change, not a network fault, so it is never retried.
type ParseError struct {
	Selector string
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed on %q: %s", e.Selector, e.Detail)
}

// ValidationError means a located field held a value that could not be
// coerced into its record type. Never defaulted, always surfaced.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Field)
}
