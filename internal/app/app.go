// Package app wires configuration, logging, metrics and the orchestrator
// into the three run modes: single-term lookup, CLI listing and the
// interactive viewer.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/agbru/fibseq/internal/cli"
	"github.com/agbru/fibseq/internal/config"
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/tui"
	"github.com/agbru/fibseq/internal/ui"
)

// Application represents the fibseq application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
	Metrics   *metrics.TaskMetrics
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the default stderr zerolog logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithMetrics records task metrics into m even when no metrics address is
// configured.
func WithMetrics(m *metrics.TaskMetrics) AppOption {
	return func(a *Application) { a.Metrics = m }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "fibseq"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)

	if app.Logger == nil {
		app.Logger = logging.NewLogger(errWriter, "fibseq")
	}
	if app.Metrics == nil && app.Config.MetricsAddr != "" {
		app.Metrics = metrics.NewTaskMetrics()
	}
	return app, nil
}

// Run executes the application in the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(apperrors.NewConfigError("--log-level: %v", err), 0, a.ErrWriter)
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, shutdownSignals...)
	defer stopSignals()

	if a.Config.MetricsAddr != "" && a.Metrics != nil {
		stopMetrics := a.serveMetrics(ctx)
		defer stopMetrics()
	}

	switch {
	case a.Config.Lookup:
		return a.runLookup(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	default:
		return a.runCalculate(ctx, out)
	}
}

// serveMetrics exposes the metrics registry until the returned function is
// called.
func (a *Application) serveMetrics(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.Metrics.Serve(ctx, a.Config.MetricsAddr); err != nil {
			a.Logger.Error("metrics server stopped", err, logging.String("addr", a.Config.MetricsAddr))
		}
	}()
	a.Logger.Info("serving metrics", logging.String("addr", a.Config.MetricsAddr))
	return func() {
		cancel()
		<-done
	}
}

// orchestratorOptions translates the configuration into orchestrator options.
func (a *Application) orchestratorOptions() []orchestration.Option {
	opts := []orchestration.Option{
		orchestration.WithLogger(a.Logger),
		orchestration.WithGenerator(a.Config.GeneratorKind()),
		orchestration.WithChunkSize(a.Config.ChunkSize),
		orchestration.WithWorkers(a.Config.Workers),
	}
	if a.Metrics != nil {
		opts = append(opts, orchestration.WithMetrics(a.Metrics))
	}
	return opts
}

// runTUI launches the interactive viewer.
func (a *Application) runTUI(ctx context.Context) int {
	p, err := a.Config.Plan()
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
	}
	return tui.Run(ctx, tui.Config{
		Plan:    p,
		Header:  p.String(),
		Verbose: a.Config.Verbose,
		Version: Version,
		Options: a.orchestratorOptions(),
	})
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
