// Package apperrors defines the error types of fibseq and their mapping to
// process exit codes.
//
// The sequence core never returns errors: plans that cannot produce values
// complete with an empty result. Errors only come from configuration
// parsing, preset loading, cancellation and aborted tasks.
//
// All wrapping uses fmt.Errorf with %w, so errors.Is and errors.As see
// through every layer.
package apperrors
