// Package fibonacci generates Fibonacci-like sequences over arbitrary-precision
// integers. A sequence is defined by a seed pair (term 0, term 1) and the
// recurrence a(n) = a(n-1) + a(n-2).
//
// Two strategies share the Generator capability:
//   - Linear: one addition per produced term, used for contiguous ranges.
//   - Matrix: symmetric 2x2 matrix powers, used for distant single-index
//     lookups through CalcOne and available as a stepping producer.
package fibonacci

import (
	"fmt"
	"iter"
	"math/big"
)

// Pair is the seed of a sequence: First is term 0 and Second is term 1.
type Pair struct {
	First  *big.Int
	Second *big.Int
}

// NewPair builds a seed pair from machine integers.
func NewPair(first, second int64) *Pair {
	return &Pair{First: big.NewInt(first), Second: big.NewInt(second)}
}

// DefaultPair returns the canonical seed (0, 1).
func DefaultPair() *Pair {
	return NewPair(DefaultFirst, DefaultSecond)
}

// Complete reports whether both terms are set. Generators and plans treat
// an incomplete pair as no seed at all.
func (p *Pair) Complete() bool {
	return p != nil && p.First != nil && p.Second != nil
}

// Clone returns a deep copy of the pair so that callers can keep mutating
// their own big.Int values without affecting a generator. An incomplete
// pair clones to nil.
func (p *Pair) Clone() *Pair {
	if !p.Complete() {
		return nil
	}
	return &Pair{
		First:  new(big.Int).Set(p.First),
		Second: new(big.Int).Set(p.Second),
	}
}

// String renders the pair as "(a, b)".
func (p *Pair) String() string {
	if p == nil {
		return "(default)"
	}
	return fmt.Sprintf("(%s, %s)", p.First, p.Second)
}

// Generator produces an infinite, non-restartable sequence of values.
// Every call to Next advances the internal state by exactly one term and
// returns a value the caller owns.
type Generator interface {
	Next() *big.Int
}

// Kind selects a generation strategy.
type Kind int

const (
	// KindLinear selects the O(1)-per-term additive generator.
	KindLinear Kind = iota
	// KindMatrix selects the matrix-power generator.
	KindMatrix
)

// String returns the human-readable name of the strategy.
func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a strategy name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "linear", "lineal":
		return KindLinear, nil
	case "matrix", "matmul":
		return KindMatrix, nil
	}
	return 0, fmt.Errorf("unknown generator %q", name)
}

// New returns a generator of the selected kind that produces the terms of
// the seeded sequence starting at index 2, i.e. the continuation after the
// seed pair. Both kinds yield identical values, so callers can switch
// strategies without changing how they consume the generator.
func New(kind Kind, seed *Pair) Generator {
	if kind == KindMatrix {
		m := NewMatrix(seed)
		// The matrix producer emits the two seed terms first.
		m.Next()
		m.Next()
		return m
	}
	return NewLinear(seed)
}

// Values adapts a generator to a range-over-func sequence. The sequence is
// infinite; consumers stop it by breaking out of the loop.
func Values(g Generator) iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		for {
			if !yield(g.Next()) {
				return
			}
		}
	}
}

// Take discards skip values from g and returns the following n values.
func Take(g Generator, skip, n int) []*big.Int {
	for i := 0; i < skip; i++ {
		g.Next()
	}
	if n <= 0 {
		return nil
	}
	out := make([]*big.Int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Next())
	}
	return out
}

// Term returns the n-th term (zero-based) of the sequence seeded by seed,
// using the O(log n) matrix path. A nil seed selects the canonical (0, 1).
func Term(seed *Pair, n uint64) *big.Int {
	return NewMatrix(seed).CalcOne(n)
}
