// Package parallel evaluates filter predicates over chunks of sequence values
// on a bounded pool of goroutines while keeping the input order.
package parallel

import (
	"context"
	"fmt"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibseq/internal/filter"
)

// MinParallelItems is the chunk length below which FilterChunk evaluates
// serially. Spawning goroutines for a handful of values costs more than the
// comparisons themselves.
const MinParallelItems = 64

// cancelCheckInterval bounds how many values a worker evaluates between two
// context checks.
const cancelCheckInterval = 256

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// FilterChunk returns the values of chunk accepted by pred, in their original
// order. The chunk is split into at most workers contiguous segments that are
// evaluated concurrently; each segment records a keep flag per position, so
// reassembly never reorders values.
//
// Parameters:
//   - ctx: Cancels the evaluation; the context error is returned.
//   - chunk: The values to filter. It is read, never modified.
//   - pred: The predicate to apply. It must be safe for concurrent use.
//   - workers: Upper bound on concurrent goroutines. Values < 1 mean DefaultWorkers.
//
// Returns:
//   - []*big.Int: The surviving values (nil when none survive).
//   - error: ctx.Err() on cancellation, or an error describing a predicate panic.
func FilterChunk(ctx context.Context, chunk []*big.Int, pred filter.Predicate, workers int) ([]*big.Int, error) {
	if len(chunk) == 0 {
		return nil, ctx.Err()
	}
	if workers < 1 {
		workers = DefaultWorkers()
	}
	if workers == 1 || len(chunk) < MinParallelItems {
		return filterSerial(ctx, chunk, pred)
	}

	keep := make([]bool, len(chunk))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, seg := range Segments(len(chunk), workers) {
		lo, hi := seg[0], seg[1]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("predicate panic: %v", r)
				}
			}()
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				keep[i] = pred.Accept(chunk[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*big.Int
	for i, ok := range keep {
		if ok {
			out = append(out, chunk[i])
		}
	}
	return out, nil
}

func filterSerial(ctx context.Context, chunk []*big.Int, pred filter.Predicate) (out []*big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("predicate panic: %v", r)
		}
	}()
	for i, v := range chunk {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if pred.Accept(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Segments splits [0, n) into at most parts contiguous half-open ranges of
// near-equal length. The earlier segments take the remainder.
func Segments(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	size, rem := n/parts, n%parts
	segs := make([][2]int, 0, parts)
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		segs = append(segs, [2]int{lo, hi})
		lo = hi
	}
	return segs
}
