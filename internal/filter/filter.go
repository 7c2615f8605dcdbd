// Package filter holds the predicates applied to generated sequence values.
// A Set is an ordered conjunction: a value survives only if every predicate
// in the set accepts it.
package filter

import (
	"fmt"
	"math/big"
	"strings"
)

// Predicate decides whether a value is kept. Implementations must be pure and
// safe for concurrent use: the orchestrator evaluates a Set from several
// goroutines at once.
type Predicate interface {
	Accept(v *big.Int) bool
}

// PredicateFunc adapts an ordinary function to the Predicate interface.
type PredicateFunc func(v *big.Int) bool

// Accept calls f(v).
func (f PredicateFunc) Accept(v *big.Int) bool {
	return f(v)
}

// Set is an ordered, append-only list of predicates.
// The zero value is an empty set that accepts everything.
type Set struct {
	preds []Predicate
}

// NewSet returns a set holding the given predicates in order.
func NewSet(preds ...Predicate) *Set {
	s := &Set{}
	for _, p := range preds {
		s.Add(p)
	}
	return s
}

// Add appends p to the set. Nil predicates are ignored.
func (s *Set) Add(p Predicate) *Set {
	if p != nil {
		s.preds = append(s.preds, p)
	}
	return s
}

// Len returns the number of predicates in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.preds)
}

// Empty reports whether the set has no predicates.
func (s *Set) Empty() bool {
	return s.Len() == 0
}

// Accept reports whether every predicate accepts v. Evaluation stops at the
// first rejection. An empty or nil set accepts every value.
func (s *Set) Accept(v *big.Int) bool {
	if s == nil {
		return true
	}
	for _, p := range s.preds {
		if !p.Accept(v) {
			return false
		}
	}
	return true
}

// Predicates returns a copy of the predicate list.
func (s *Set) Predicates() []Predicate {
	if s == nil || len(s.preds) == 0 {
		return nil
	}
	out := make([]Predicate, len(s.preds))
	copy(out, s.preds)
	return out
}

// Clone returns an independent set with the same predicates.
func (s *Set) Clone() *Set {
	return &Set{preds: s.Predicates()}
}

// Op is a comparison operator used by filter rows.
type Op int

const (
	// OpGe keeps values greater than or equal to the operand.
	OpGe Op = iota
	// OpLe keeps values less than or equal to the operand.
	OpLe
)

// String returns the operator symbol.
func (o Op) String() string {
	switch o {
	case OpGe:
		return "≥"
	case OpLe:
		return "≤"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp accepts "ge", ">=", "≥" and "le", "<=", "≤" (case-insensitive).
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ge", ">=", "≥":
		return OpGe, nil
	case "le", "<=", "≤":
		return OpLe, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

// Comparison compares values against a fixed operand.
type Comparison struct {
	Op    Op
	Value *big.Int
}

// NewComparison builds a comparison holding a private copy of value.
func NewComparison(op Op, value *big.Int) Comparison {
	return Comparison{Op: op, Value: new(big.Int).Set(value)}
}

// Accept implements Predicate.
func (c Comparison) Accept(v *big.Int) bool {
	switch c.Op {
	case OpGe:
		return v.Cmp(c.Value) >= 0
	case OpLe:
		return v.Cmp(c.Value) <= 0
	default:
		return false
	}
}

// String renders the comparison the way filter rows display it, e.g. "≥ 100".
func (c Comparison) String() string {
	return c.Op.String() + " " + c.Value.String()
}

// AtLeast keeps values >= min.
func AtLeast(min *big.Int) Predicate {
	return NewComparison(OpGe, min)
}

// AtMost keeps values <= max.
func AtMost(max *big.Int) Predicate {
	return NewComparison(OpLe, max)
}

// Even keeps values divisible by two.
func Even() Predicate {
	return PredicateFunc(func(v *big.Int) bool {
		return v.Bit(0) == 0
	})
}

// DivisibleBy keeps values that are exact multiples of d. A zero divisor only
// accepts zero.
func DivisibleBy(d *big.Int) Predicate {
	div := new(big.Int).Abs(d)
	if div.Sign() == 0 {
		return PredicateFunc(func(v *big.Int) bool { return v.Sign() == 0 })
	}
	return PredicateFunc(func(v *big.Int) bool {
		return new(big.Int).Rem(v, div).Sign() == 0
	})
}
