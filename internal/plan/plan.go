// Package plan accumulates the inputs of one sequence task (seed pair, index
// window and filters) and freezes them into an immutable Plan.
package plan

import (
	"fmt"
	"math/big"

	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/filter"
)

// Range is the half-open index window [Start, End) over zero-based term
// positions.
type Range struct {
	Start uint64
	End   uint64
}

// NewRange returns a pointer to the window [start, end).
func NewRange(start, end uint64) *Range {
	return &Range{Start: start, End: end}
}

// Len returns End - Start, saturating at zero for inverted windows.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Inverted reports whether Start > End.
func (r Range) Inverted() bool {
	return r.Start > r.End
}

// Contains reports whether index i lies inside the window.
func (r Range) Contains(i uint64) bool {
	return i >= r.Start && i < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Builder is a mutable accumulator for a Plan. Setters return the builder so
// calls can be chained:
//
//	p := plan.NewBuilder().
//		SetStartPair(fibonacci.NewPair(0, 1)).
//		SetRange(plan.NewRange(0, 12)).
//		AddFilter(filter.Even()).
//		Build()
//
// A Builder is not safe for concurrent use.
type Builder struct {
	seed    *fibonacci.Pair
	window  *Range
	filters *filter.Set
}

// NewBuilder returns an empty builder: no seed, no range, no filters.
func NewBuilder() *Builder {
	return &Builder{filters: filter.NewSet()}
}

// SetStartPair sets the two seed terms. A nil pair, or one missing either
// term, clears the seed.
func (b *Builder) SetStartPair(seed *fibonacci.Pair) *Builder {
	b.seed = seed.Clone()
	return b
}

// SetRange sets the index window. A nil range clears it.
func (b *Builder) SetRange(r *Range) *Builder {
	if r == nil {
		b.window = nil
		return b
	}
	cp := *r
	b.window = &cp
	return b
}

// AddFilter appends a predicate.
func (b *Builder) AddFilter(p filter.Predicate) *Builder {
	b.filters.Add(p)
	return b
}

// AddFilterFunc appends a plain function as a predicate.
func (b *Builder) AddFilterFunc(f func(*big.Int) bool) *Builder {
	if f == nil {
		return b
	}
	return b.AddFilter(filter.PredicateFunc(f))
}

// StartPair returns the configured seed, or nil.
func (b *Builder) StartPair() *fibonacci.Pair { return b.seed.Clone() }

// Range returns the configured window, or nil.
func (b *Builder) Range() *Range {
	if b.window == nil {
		return nil
	}
	cp := *b.window
	return &cp
}

// Filters returns the configured predicates in insertion order.
func (b *Builder) Filters() []filter.Predicate { return b.filters.Predicates() }

// HasNoWork reports whether neither a range nor any predicate was configured.
func (b *Builder) HasNoWork() bool {
	return b.window == nil && b.filters.Empty()
}

// Build freezes the current configuration. Later changes to the builder do
// not affect the returned Plan.
func (b *Builder) Build() Plan {
	return Plan{
		seed:    b.seed.Clone(),
		window:  b.Range(),
		filters: b.filters.Clone(),
	}
}

// Plan is the immutable input of one task.
type Plan struct {
	seed    *fibonacci.Pair
	window  *Range
	filters *filter.Set
}

// StartPair returns a copy of the seed, or nil when none was set.
func (p Plan) StartPair() *fibonacci.Pair { return p.seed.Clone() }

// Range returns the window and whether one was set.
func (p Plan) Range() (Range, bool) {
	if p.window == nil {
		return Range{}, false
	}
	return *p.window, true
}

// Filters returns the predicate set. The zero Plan has an empty set.
func (p Plan) Filters() *filter.Set {
	if p.filters == nil {
		return filter.NewSet()
	}
	return p.filters.Clone()
}

// HasNoWork reports whether neither a range nor any predicate is present.
func (p Plan) HasNoWork() bool {
	return p.window == nil && p.filters.Empty()
}

// Runnable reports whether the plan can produce values: it needs a seed and
// a non-inverted range.
func (p Plan) Runnable() bool {
	return p.seed != nil && p.window != nil && !p.window.Inverted()
}

func (p Plan) String() string {
	window := "none"
	if p.window != nil {
		window = p.window.String()
	}
	return fmt.Sprintf("seed=%s range=%s filters=%d", p.seed, window, p.filters.Len())
}
