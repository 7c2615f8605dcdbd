// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatValue], [FormatSummary].

package cli

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/ui"
)

// FormatValue renders v for the terminal. Unless verbose is set, values with
// more than TruncationLimit digits keep only DisplayEdges digits at each end.
// The boolean reports whether the value was shortened.
func FormatValue(v *big.Int, verbose bool) (string, bool) {
	s := v.String()
	if verbose {
		return s, false
	}
	short := format.TruncateDigits(s, TruncationLimit, DisplayEdges)
	return short, short != s
}

// FormatSummary renders the closing line of a result listing.
func FormatSummary(count int, d time.Duration) string {
	noun := "values"
	if count == 1 {
		noun = "value"
	}
	return fmt.Sprintf("%s %s in %s", format.FormatCount(count), noun, format.FormatExecutionDuration(d))
}

// DisplayQuietResult prints one full value per line, for scripting.
func DisplayQuietResult(out io.Writer, values []*big.Int) {
	for _, v := range values {
		fmt.Fprintln(out, v.String())
	}
}

// DisplayResult prints the header, the numbered value list and a summary.
func DisplayResult(res orchestration.TaskResult, opts orchestration.PresentationOptions, out io.Writer) {
	theme := ui.GetCurrentTheme()
	if opts.Header != "" {
		fmt.Fprintf(out, "%s\n", theme.Paint(theme.Secondary, opts.Header))
	}

	truncated := false
	width := len(fmt.Sprint(len(res.Values)))
	for i, v := range res.Values {
		text, short := FormatValue(v, opts.Verbose)
		truncated = truncated || short
		fmt.Fprintf(out, "%*d  %s\n", width, i, theme.Paint(theme.Primary, text))
	}
	if len(res.Values) == 0 {
		fmt.Fprintf(out, "%s\n", theme.Paint(theme.Warning, "no values matched"))
	}

	fmt.Fprintf(out, "%s\n", theme.Paint(theme.Success, FormatSummary(len(res.Values), res.Duration)))
	if truncated {
		fmt.Fprintf(out, "%s\n", theme.Paint(theme.Secondary, "(long values truncated; use --verbose to print them in full)"))
	}
}

// DisplayLookup prints a single term a(n).
func DisplayLookup(out io.Writer, n uint64, v *big.Int, d time.Duration, verbose, quiet bool) {
	if quiet {
		fmt.Fprintln(out, v.String())
		return
	}
	theme := ui.GetCurrentTheme()
	text, short := FormatValue(v, verbose)
	fmt.Fprintf(out, "a(%d) = %s\n", n, theme.Paint(theme.Primary, text))
	if short {
		fmt.Fprintf(out, "%s\n", theme.Paint(theme.Secondary,
			fmt.Sprintf("(%s digits, truncated; use --verbose to print in full)", format.FormatCount(len(v.String())))))
	}
	fmt.Fprintf(out, "%s\n", theme.Paint(theme.Success, "computed in "+format.FormatExecutionDuration(d)))
}
