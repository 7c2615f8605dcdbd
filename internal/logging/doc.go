// Package logging provides the logging interface shared by the fibseq
// packages. Callers log through Logger with typed Field values; the zerolog
// adapter is the default backend and a standard library adapter is kept for
// plain-text output.
package logging
