package fibonacci

import "math/big"

// matrix is a symmetric 2x2 integer matrix
//
//	[ n00 n01 ]
//	[ n01 n11 ]
//
// Every matrix built here is a polynomial in Q = [[1, 1], [1, 0]], so all of
// them commute and their products stay symmetric. That lets one value stand
// for both off-diagonal entries.
type matrix struct {
	n00 *big.Int
	n01 *big.Int
	n11 *big.Int
}

func newMatrix(n00, n01, n11 *big.Int) matrix {
	return matrix{n00: n00, n01: n01, n11: n11}
}

// qMatrix returns Q, the single-position step.
func qMatrix() matrix {
	return newMatrix(big.NewInt(1), big.NewInt(1), big.NewInt(0))
}

// stepMatrix returns Q³, the three-position step used by sequential stepping.
func stepMatrix() matrix {
	return newMatrix(big.NewInt(stepN00), big.NewInt(stepN01), big.NewInt(stepN11))
}

// seedMatrix returns [[b, a], [a, b-a]] = a·Q + (b-a)·I for the seed (a, b).
// Multiplying it by Q^k yields [[t(k+1), t(k)], [t(k), t(k-1)]].
func seedMatrix(a, b *big.Int) matrix {
	return newMatrix(
		new(big.Int).Set(b),
		new(big.Int).Set(a),
		new(big.Int).Sub(b, a),
	)
}

// mul returns m × o following
//
//	[[a,b],[b,c]] × [[d,e],[e,f]] = [[ad+be, ae+bf], [ae+bf, be+cf]]
func (m matrix) mul(o matrix) matrix {
	var t big.Int

	n00 := new(big.Int).Mul(m.n00, o.n00)
	n00.Add(n00, t.Mul(m.n01, o.n01))

	n01 := new(big.Int).Mul(m.n00, o.n01)
	n01.Add(n01, t.Mul(m.n01, o.n11))

	n11 := new(big.Int).Mul(m.n01, o.n01)
	n11.Add(n11, t.Mul(m.n11, o.n11))

	return newMatrix(n00, n01, n11)
}

// Matrix generates a sequence from powers of the recurrence matrix.
//
// Mathematical Basis:
// With seed (a, b) the running state starts at S = [[b, a], [a, b-a]] and
//
//	S · Q^k = [ t(k+1) t(k)   ]
//	          [ t(k)   t(k-1) ]
//
// Sequential stepping multiplies by Q³ once every three terms and reads the
// three new terms from n11, n01 and n00 in that order. CalcOne raises Q to
// the required power by binary exponentiation instead, so a single distant
// term costs O(log n) matrix products.
type Matrix struct {
	seed  matrix
	state matrix
	step  matrix
	count uint64
}

// NewMatrix creates a Matrix generator from seed. A nil or incomplete seed
// uses (0, 1).
func NewMatrix(seed *Pair) *Matrix {
	a, b := big.NewInt(DefaultFirst), big.NewInt(DefaultSecond)
	if seed.Complete() {
		a, b = seed.First, seed.Second
	}
	s := seedMatrix(a, b)
	return &Matrix{
		seed:  s,
		state: seedMatrix(a, b),
		step:  stepMatrix(),
		count: 1,
	}
}

// Next returns the next term. The first two calls return the seed terms
// directly; from then on one matrix product serves three calls.
func (m *Matrix) Next() *big.Int {
	m.count++
	switch m.count % TermsPerStep {
	case 2:
		return new(big.Int).Set(m.state.n01)
	case 0:
		return new(big.Int).Set(m.state.n00)
	default:
		m.state = m.state.mul(m.step)
		return new(big.Int).Set(m.state.n11)
	}
}

// CalcOne returns term n of the seeded sequence without producing the terms
// before it. Indices 0 and 1 come straight from the seed. For n >= 2 the
// bits of n-2 drive a square-and-multiply loop over Q; the accumulator ends
// at S·Q^(n-2) whose top row holds t(n-1) and t(n-2).
//
// CalcOne does not touch the stepping state, so it can be mixed freely with
// calls to Next.
func (m *Matrix) CalcOne(n uint64) *big.Int {
	switch n {
	case 0:
		return new(big.Int).Set(m.seed.n01)
	case 1:
		return new(big.Int).Set(m.seed.n00)
	}

	acc := m.seed
	step := qMatrix()
	for e := n - 2; e > 0; e >>= 1 {
		if e&1 == 1 {
			acc = acc.mul(step)
		}
		step = step.mul(step)
	}
	return new(big.Int).Add(acc.n00, acc.n01)
}
