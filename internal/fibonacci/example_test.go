package fibonacci

import "fmt"

// ExampleNewLinear shows the continuation of the classic seed.
func ExampleNewLinear() {
	g := NewLinear(NewPair(0, 1))
	for i := 0; i < 10; i++ {
		fmt.Print(g.Next(), " ")
	}
	fmt.Println()
	// Output:
	// 1 2 3 5 8 13 21 34 55 89
}

// ExampleMatrix_CalcOne looks up single distant terms without producing the
// ones in between.
func ExampleMatrix_CalcOne() {
	m := NewMatrix(nil)
	for _, n := range []uint64{0, 1, 2, 10, 93} {
		fmt.Printf("F(%d) = %s\n", n, m.CalcOne(n))
	}
	// Output:
	// F(0) = 0
	// F(1) = 1
	// F(2) = 1
	// F(10) = 55
	// F(93) = 12200160415121876738
}

// ExampleNew selects a strategy by kind; both yield the same values.
func ExampleNew() {
	seed := NewPair(2, 1)
	for _, kind := range []Kind{KindLinear, KindMatrix} {
		fmt.Println(kind, Take(New(kind, seed), 0, 5))
	}
	// Output:
	// linear [3 4 7 11 18]
	// matrix [3 4 7 11 18]
}
