//go:build !gmp

package app

import "github.com/agbru/fibseq/internal/fibonacci"

var lookupTerm = fibonacci.Term
