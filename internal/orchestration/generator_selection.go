package orchestration

import (
	"math/big"

	"github.com/agbru/fibseq/internal/fibonacci"
)

// JumpThreshold is the number of leading terms above which a linear producer
// is repositioned through the matrix direct path instead of being stepped.
const JumpThreshold = 4096

// producerAt returns a generator whose first Next call yields term first of
// the seeded sequence. first must be >= 2.
//
// Linear producers that would have to discard more than JumpThreshold terms
// are reseeded with terms first-2 and first-1, computed in O(log first)
// matrix products. The values produced are identical either way.
func producerAt(kind fibonacci.Kind, seed *fibonacci.Pair, first uint64) fibonacci.Generator {
	skip := first - 2
	if kind == fibonacci.KindLinear && skip > JumpThreshold {
		m := fibonacci.NewMatrix(seed)
		return fibonacci.NewLinear(&fibonacci.Pair{
			First:  m.CalcOne(first - 2),
			Second: m.CalcOne(first - 1),
		})
	}
	g := fibonacci.New(kind, seed)
	fibonacci.Take(g, int(skip), 0)
	return g
}

// seedTerm returns a copy of term 0 or 1 straight from the seed.
func seedTerm(seed *fibonacci.Pair, index uint64) *big.Int {
	if index == 0 {
		return new(big.Int).Set(seed.First)
	}
	return new(big.Int).Set(seed.Second)
}
