package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the assessment pipeline. Network, server, and
// malformed-response failures trigger local fallback; authentication failures
// and storage faults are surfaced directly.
var (
	// ErrSubmissionInFlight rejects a submit while another submission is
	// still running on the same orchestrator.
	ErrSubmissionInFlight = errors.New("assessment submission already in progress")

	// ErrUnauthorized marks a 401 from the remote classifier. It never
	// triggers local fallback: the session likely needs to be refreshed.
	ErrUnauthorized = errors.New("remote classifier rejected credentials")

	// ErrMalformedResponse marks a 2xx body carrying none of the recognized
	// score-bearing fields.
	ErrMalformedResponse = errors.New("remote response carries no recognized risk fields")

	// ErrRemoteUnavailable covers connectivity failures and timeouts.
	ErrRemoteUnavailable = errors.New("remote classifier unavailable")

	// ErrStorageFault marks a failed durable insert or update.
	ErrStorageFault = errors.New("activity history storage fault")
)

// ValidationError reports an incomplete or invalid SymptomProfile. It is
// recovered before orchestration starts and never reaches the engine.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// RemoteError carries the HTTP status of a failed remote classifier call.
// 401 unwraps to ErrUnauthorized; everything else is an opaque server failure.
type RemoteError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote classifier returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote classifier returned %d", e.StatusCode)
}

// Unwrap maps the status code onto the failure taxonomy.
func (e *RemoteError) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return ErrRemoteUnavailable
}

// IsFallbackEligible reports whether a remote failure should trigger the
// local scoring engine. Authentication failures are surfaced directly.
func IsFallbackEligible(err error) bool {
	return err != nil && !errors.Is(err, ErrUnauthorized)
}
