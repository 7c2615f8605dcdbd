package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // A task aborted or an unexpected error occurred.
	ExitErrorTimeout  = 2   // The --timeout deadline expired.
	ExitErrorConfig   = 4   // Invalid flags, environment or preset.
	ExitErrorCanceled = 130 // Interrupted (e.g., SIGINT).
)

// ConfigError represents invalid user configuration: a bad flag, an
// environment override that does not parse, or a malformed preset.
type ConfigError struct {
	// Message explains the configuration problem.
	Message string
}

// Error returns the message.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError reports a field whose value is well-formed but not
// acceptable, e.g. a non-integer seed term.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// TaskError carries the cause of an aborted sequence task along with the
// task identifier, so the CLI can report which run failed.
type TaskError struct {
	TaskID string
	Cause  error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.TaskID, e.Cause)
}

// Unwrap returns the cause.
func (e TaskError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded the configured limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps err with a formatted context message using %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is, or wraps, a context cancellation or
// deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	var (
		configErr     ConfigError
		validationErr ValidationError
		timeoutErr    TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
