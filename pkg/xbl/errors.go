/*
File: errors.go
Description: Error taxonomy for Xbox Live API interactions. Transport,
status, parse, validation, and state failures are distinct types so callers
can pick the surfacing policy per class instead of string-matching.
*/

package xbl

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport-level failure (DNS, dial, timeout).
type NetworkError struct {
	Op  string // operation being performed, e.g. "load achievements"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response. The body is carried so the
// caller can show the service's own message.
type HTTPStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// ParseError reports a response body that could not be decoded at all.
// Missing individual fields are never a ParseError; those degrade to
// defaults at the accessor level.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports bad user input, e.g. a non-numeric title id.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation attempted in a state that does not allow
// it, e.g. unlocking an already-unlocked achievement or starting a second
// heartbeat session.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

// IsAuthFailure reports whether err is an HTTP 401/403, which means the
// stored authorization token is missing, expired, or rejected.
func IsAuthFailure(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 401 || statusErr.StatusCode == 403
	}
	return false
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// HTTPStatusError.
func StatusCode(err error) int {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
