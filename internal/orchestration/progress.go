package orchestration

import (
	"math/bits"
	"time"
)

// Percent returns floor(100 * processed / total) clamped to [0, 100].
// A zero total counts as complete.
func Percent(processed, total uint64) uint8 {
	if total == 0 || processed >= total {
		return 100
	}
	hi, lo := bits.Mul64(processed, 100)
	q, _ := bits.Div64(hi, lo, total)
	if q > 100 {
		q = 100
	}
	return uint8(q)
}

// ProgressTracker turns the percentages of a Stream into a smoothed ETA for
// display. Both the CLI and the TUI feed it every Progress event they see.
// A task reports Generating and then Filtering, each from 0 to 100, so a
// drop in percentage starts a new phase.
type ProgressTracker struct {
	now        func() time.Time
	phase      int
	phaseStart time.Time
	last       uint8
	eta        time.Duration
}

// NewProgressTracker starts tracking at the current time.
func NewProgressTracker() *ProgressTracker {
	return newProgressTracker(time.Now)
}

func newProgressTracker(now func() time.Time) *ProgressTracker {
	return &ProgressTracker{now: now, phaseStart: now()}
}

// ProgressSnapshot is the tracker state after an update.
type ProgressSnapshot struct {
	Phase   int // 0 while generating, 1 while filtering
	Percent uint8
	ETA     time.Duration // 0 while unknown
}

// Fraction returns Percent as a value in [0, 1].
func (s ProgressSnapshot) Fraction() float64 { return float64(s.Percent) / 100 }

// Update records a progress percentage.
func (t *ProgressTracker) Update(percent uint8) ProgressSnapshot {
	now := t.now()
	if percent < t.last {
		t.phase++
		t.phaseStart = now
		t.eta = 0
	}
	t.last = percent

	elapsed := now.Sub(t.phaseStart)
	switch {
	case percent >= 100:
		t.eta = 0
	case percent > 0 && elapsed > 0:
		estimate := time.Duration(float64(elapsed) * float64(100-percent) / float64(percent))
		if t.eta == 0 {
			t.eta = estimate
		} else {
			// exponential smoothing, alpha = 0.3
			t.eta = time.Duration(0.3*float64(estimate) + 0.7*float64(t.eta))
		}
	}
	return t.Snapshot()
}

// Snapshot returns the current state without updating it.
func (t *ProgressTracker) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{Phase: t.phase, Percent: t.last, ETA: t.eta}
}
