//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/orchestration"
)

const (
	// TruncationLimit is the digit count above which a value is shortened in
	// standard output.
	TruncationLimit = 100
	// DisplayEdges is the number of leading and trailing digits kept when a
	// value is shortened.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner animation interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner's own lock; the animation goroutine reads
// Suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress drains s until its Result event while animating a spinner
// with a progress bar and an ETA. The final bar is written to out once the
// spinner has stopped.
func DisplayProgress(ctx context.Context, s *orchestration.Stream, out io.Writer) orchestration.TaskResult {
	tracker := orchestration.NewProgressTracker()
	spin := newSpinner(spinner.WithWriter(out))
	spin.UpdateSuffix(" " + format.FormatProgressBarWithETA(0, 0, ProgressBarWidth))
	spin.Start()

	res := orchestration.Await(ctx, s, func(percent uint8) {
		snap := tracker.Update(percent)
		spin.UpdateSuffix(" " + format.FormatProgressBarWithETA(snap.Fraction(), snap.ETA, ProgressBarWidth))
	})
	spin.Stop()

	final := tracker.Snapshot().Fraction()
	if res.Err == nil {
		final = 1
	}
	fmt.Fprintf(out, "%s\n", format.FormatProgressBarWithETA(final, 0, ProgressBarWidth))
	return res
}
