// Package errs defines the error taxonomy shared across the application.
//
// Errors fall into two propagation classes:
//
//   - Recoverable: ValidationError, NotFoundError, and ProviderError raised
//     inside a tool dispatch are folded back into the model conversation as
//     structured error payloads so the assistant can explain the failure.
//   - Fatal: ConfigError at startup and ProviderError from the model call
//     itself propagate to the caller.
package errs

import (
	"errors"
	"fmt"
)

// ErrToolLoopExceeded is returned when the agent loop reaches its maximum
// number of tool-call rounds without the model producing a final answer.
var ErrToolLoopExceeded = errors.New("tool loop exceeded maximum rounds")

// ConfigError indicates a missing or unusable credential or setting.
// It is fatal: the process must not proceed past startup.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Key, e.Reason)
}

// NewConfigError creates a ConfigError for the given configuration key.
func NewConfigError(key, reason string) *ConfigError {
	return &ConfigError{Key: key, Reason: reason}
}

// ValidationError indicates malformed user-supplied arguments, such as a
// date that does not parse as YYYY-MM-DD or an update that supplies a date
// without a time.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError indicates an operation referenced an event that does not
// exist in the remote calendar.
type NotFoundError struct {
	EventID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %s not found", e.EventID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ProviderError indicates a transport, auth, or rate-limit failure talking
// to an external provider (the language model or the calendar service).
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProvider wraps err as a ProviderError for the given provider and
// operation. Returns nil if err is nil.
func WrapProvider(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// IsProvider reports whether err is a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
