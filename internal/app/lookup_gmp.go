//go:build gmp

package app

import "github.com/agbru/fibseq/internal/fibonacci"

// GMP builds use libgmp for the matrix products of single-term lookups.
var lookupTerm = fibonacci.CalcOneGMP
