package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/fibseq/internal/config"
	"github.com/agbru/fibseq/internal/plan"
	"github.com/agbru/fibseq/internal/ui"
)

// PrintExecutionConfig describes the task about to run: seed, index window,
// filters, generator and environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	theme := ui.GetCurrentTheme()
	filters := "none"
	if labels := cfg.FilterLabels(); len(labels) > 0 {
		filters = strings.Join(labels, ", ")
	}

	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Seed %s, indices %s, filters %s.\n",
		theme.Paint(theme.Primary, "("+cfg.Seed+")"),
		theme.Paint(theme.Primary, plan.NewRange(cfg.Start, cfg.End).String()),
		theme.Paint(theme.Info, filters))
	fmt.Fprintf(out, "Generator %s, chunk size %s, timeout %s.\n",
		theme.Paint(theme.Info, cfg.GeneratorKind().String()),
		theme.Paint(theme.Info, fmt.Sprint(cfg.ChunkSize)),
		theme.Paint(theme.Warning, cfg.Timeout.String()))
	fmt.Fprintf(out, "Environment: %s logical processors, Go %s.\n",
		theme.Paint(theme.Info, fmt.Sprint(runtime.NumCPU())),
		theme.Paint(theme.Info, runtime.Version()))
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
