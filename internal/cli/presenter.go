package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(ctx context.Context, s *orchestration.Stream, out io.Writer) orchestration.TaskResult {
	return DisplayProgress(ctx, s, out)
}

// CLIResultPresenter implements the presentation interfaces of the
// orchestration package for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentResult prints the values, or one bare value per line in quiet mode.
func (CLIResultPresenter) PresentResult(res orchestration.TaskResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, res.Values)
		return
	}
	DisplayResult(res, opts, out)
}

// HandleError reports err and returns the matching exit code. A nil error
// prints nothing and returns ExitSuccess.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	theme := ui.GetCurrentTheme()
	code := apperrors.ExitCode(err)

	var msg string
	var timeoutErr apperrors.TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		msg = fmt.Sprintf("Timed out after %s: %v", format.FormatExecutionDuration(duration), timeoutErr)
	case code == apperrors.ExitErrorTimeout:
		msg = fmt.Sprintf("Timed out after %s.", format.FormatExecutionDuration(duration))
	case code == apperrors.ExitErrorCanceled:
		msg = fmt.Sprintf("Canceled after %s.", format.FormatExecutionDuration(duration))
	case code == apperrors.ExitErrorConfig:
		msg = fmt.Sprintf("Configuration error: %v", err)
	default:
		msg = fmt.Sprintf("Error: %v", err)
	}
	fmt.Fprintf(out, "%s\n", theme.Paint(theme.Error, msg))
	return code
}
