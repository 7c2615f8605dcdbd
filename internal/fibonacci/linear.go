package fibonacci

import "math/big"

// Linear generates a sequence one term at a time with a single big.Int
// addition per term. Its state is the last two terms; each call to Next
// returns their sum and shifts the window forward by one.
type Linear struct {
	preLast *big.Int
	last    *big.Int
}

// NewLinear creates a Linear generator from seed. The first produced value is
// seed.First + seed.Second (term 2). A nil seed uses (-1, 1), which makes the
// generator walk the classic sequence from term 0. So does an incomplete
// pair.
func NewLinear(seed *Pair) *Linear {
	if !seed.Complete() {
		return &Linear{
			preLast: big.NewInt(DefaultLinearPreTerm),
			last:    big.NewInt(DefaultLinearTerm),
		}
	}
	s := seed.Clone()
	return &Linear{preLast: s.First, last: s.Second}
}

// Next returns the next term.
func (l *Linear) Next() *big.Int {
	next := new(big.Int).Add(l.preLast, l.last)
	l.preLast, l.last = l.last, next
	return new(big.Int).Set(next)
}
