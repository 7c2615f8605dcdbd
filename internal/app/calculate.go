package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fibseq/internal/cli"
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
)

// runCalculate runs one task and lists its surviving values.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	presenter := cli.CLIResultPresenter{}
	p, err := a.Config.Plan()
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		cli.PrintExecutionConfig(a.Config, out)
	}

	orch := orchestration.New(a.orchestratorOptions()...)
	s := orch.Start(ctx, p)
	res := reporter.DisplayProgress(ctx, s, progressOut)
	if res.Err != nil {
		s.Detach()
	}

	// A cancelled task still ends with an empty Result; report why instead
	// of printing an empty listing.
	if err := a.interruption(ctx, res.ID, res.Err); err != nil {
		return presenter.HandleError(err, res.Duration, a.ErrWriter)
	}

	presenter.PresentResult(res, orchestration.PresentationOptions{
		Verbose: a.Config.Verbose,
		Quiet:   a.Config.Quiet,
		Header:  p.String(),
	}, out)

	if a.Config.Verbose && !a.Config.Quiet {
		fmt.Fprintf(out, "task %s: %d events, %s\n", res.ID, res.Events, metrics.ReadMemory())
	}
	return apperrors.ExitSuccess
}

// interruption returns the error explaining why a task did not complete, or
// nil when it did. Errors of a started task are wrapped in a TaskError.
func (a *Application) interruption(ctx context.Context, taskID string, recvErr error) error {
	err := ctx.Err()
	if err == nil {
		err = recvErr
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: "task", Limit: a.Config.Timeout}
	}
	if taskID == "" {
		return err
	}
	return apperrors.TaskError{TaskID: taskID, Cause: err}
}

// runLookup prints the single term a(index) without generating the terms
// in between.
func (a *Application) runLookup(ctx context.Context, out io.Writer) int {
	seed, err := a.Config.SeedPair()
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
	}

	start := time.Now()
	v := lookupTerm(seed, a.Config.Index)
	elapsed := time.Since(start)
	if err := a.interruption(ctx, "", nil); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, elapsed, a.ErrWriter)
	}

	a.Logger.Debug("lookup finished",
		logging.Uint64("index", a.Config.Index),
		logging.Big("value", v),
		logging.Int("duration_ms", int(elapsed.Milliseconds())))
	cli.DisplayLookup(out, a.Config.Index, v, elapsed, a.Config.Verbose, a.Config.Quiet)
	return apperrors.ExitSuccess
}
