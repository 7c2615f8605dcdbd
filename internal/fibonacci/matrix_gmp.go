//go:build gmp

package fibonacci

import (
	"math/big"

	"github.com/ncw/gmp"
)

// gmpMatrix mirrors matrix on top of GMP integers.
type gmpMatrix struct {
	n00, n01, n11 *gmp.Int
}

func toGMP(x *big.Int) *gmp.Int {
	z, _ := new(gmp.Int).SetString(x.String(), 10)
	return z
}

func fromGMP(x *gmp.Int) *big.Int {
	z, _ := new(big.Int).SetString(x.String(), 10)
	return z
}

func (m gmpMatrix) mul(o gmpMatrix) gmpMatrix {
	t := new(gmp.Int)

	n00 := new(gmp.Int).Mul(m.n00, o.n00)
	n00.Add(n00, t.Mul(m.n01, o.n01))

	n01 := new(gmp.Int).Mul(m.n00, o.n01)
	n01.Add(n01, t.Mul(m.n01, o.n11))

	n11 := new(gmp.Int).Mul(m.n01, o.n01)
	n11.Add(n11, t.Mul(m.n11, o.n11))

	return gmpMatrix{n00: n00, n01: n01, n11: n11}
}

// CalcOneGMP computes the same value as Matrix.CalcOne using GMP for the
// matrix products. Only built with the gmp tag since it needs cgo and libgmp.
func CalcOneGMP(seed *Pair, n uint64) *big.Int {
	if !seed.Complete() {
		seed = DefaultPair()
	}
	switch n {
	case 0:
		return new(big.Int).Set(seed.First)
	case 1:
		return new(big.Int).Set(seed.Second)
	}

	a, b := toGMP(seed.First), toGMP(seed.Second)
	acc := gmpMatrix{n00: b, n01: a, n11: new(gmp.Int).Sub(b, a)}
	step := gmpMatrix{n00: gmp.NewInt(1), n01: gmp.NewInt(1), n11: gmp.NewInt(0)}
	for e := n - 2; e > 0; e >>= 1 {
		if e&1 == 1 {
			acc = acc.mul(step)
		}
		step = step.mul(step)
	}
	return fromGMP(new(gmp.Int).Add(acc.n00, acc.n01))
}
