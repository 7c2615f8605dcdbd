package orchestration

import (
	"context"
	"errors"
	"io"
	"math/big"
	"time"
)

// TaskResult is the consumer's view of a finished task.
type TaskResult struct {
	// ID is the task identifier of the drained stream.
	ID string
	// Values holds the payload of the Result event.
	Values []*big.Int
	// Events counts every event received, the Result included.
	Events int
	// Duration is the time spent draining the stream.
	Duration time.Duration
	// Err is set when draining stopped before a Result event arrived.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
	// Header describes the task, e.g. "seed=(0, 1) range=[0, 12) filters=1".
	Header string
}

// ProgressReporter displays the progress of a running task. It drains the
// stream until the Result event and returns it, so the orchestration layer
// never depends on a particular UI.
type ProgressReporter interface {
	DisplayProgress(ctx context.Context, s *Stream, out io.Writer) TaskResult
}

// NullProgressReporter drains the stream without displaying anything.
// Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress waits for the result silently.
func (NullProgressReporter) DisplayProgress(ctx context.Context, s *Stream, _ io.Writer) TaskResult {
	return Await(ctx, s, nil)
}

// Await drains s until its Result event, calling onProgress (when non-nil)
// for every Progress event on the way.
func Await(ctx context.Context, s *Stream, onProgress func(percent uint8)) TaskResult {
	start := time.Now()
	res := TaskResult{ID: s.ID()}
	for {
		e, err := s.Recv(ctx)
		if err != nil {
			if errors.Is(err, ErrStreamClosed) {
				err = errors.New("orchestration: stream closed without a result")
			}
			res.Err = err
			break
		}
		res.Events++
		if e.Kind == EventProgress {
			if onProgress != nil {
				onProgress(e.Percent)
			}
			continue
		}
		res.Values = e.Values
		break
	}
	res.Duration = time.Since(start)
	return res
}

// ResultPresenter renders a finished task.
type ResultPresenter interface {
	PresentResult(res TaskResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler maps an error to an exit code after reporting it.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
