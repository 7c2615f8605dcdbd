package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Seed Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// These constants define the state a generator starts from when the caller
// does not provide a seed pair.

const (
	// DefaultLinearPreTerm is the term preceding the first state value of an
	// unseeded Linear generator. Together with DefaultLinearTerm it makes the
	// first produced value 0, so an unseeded Linear generator walks the classic
	// sequence 0, 1, 1, 2, 3, ...
	DefaultLinearPreTerm = -1

	// DefaultLinearTerm is the current term of an unseeded Linear generator.
	DefaultLinearTerm = 1

	// DefaultFirst and DefaultSecond are the canonical seed pair (term 0 and
	// term 1) of the classic Fibonacci sequence. The Matrix generator and
	// Term fall back to it when no seed is given.
	DefaultFirst  = 0
	DefaultSecond = 1
)

// ─────────────────────────────────────────────────────────────────────────────
// Matrix Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// The recurrence matrix Q = [[1, 1], [1, 0]] advances the sequence by one
// position. Sequential stepping multiplies by Q³ and reads three entries per
// multiplication, so every third call pays for one matrix product.

const (
	// TermsPerStep is the number of sequence terms read out of the running
	// matrix between two multiplications by the step matrix.
	TermsPerStep = 3

	// stepN00, stepN01 and stepN11 are the entries of Q³.
	stepN00 = 3
	stepN01 = 2
	stepN11 = 1
)
