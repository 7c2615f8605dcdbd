// Package config parses the fibseq command line into an AppConfig.
//
// Values resolve with the priority: command-line flags, then FIBSEQ_*
// environment variables, then the YAML preset named by --preset, then the
// defaults below.
package config

import (
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/filter"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/plan"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "FIBSEQ_"

// Defaults.
const (
	DefaultSeed      = "0,1"
	DefaultStart     = 0
	DefaultEnd       = 20
	DefaultGenerator = "linear"
	DefaultChunkSize = 1000
	DefaultTimeout   = 5 * time.Minute
	DefaultLogLevel  = "warn"
)

// AppConfig holds the resolved configuration of one fibseq invocation.
type AppConfig struct {
	// Seed is the starting pair as "a,b".
	Seed string
	// Start and End delimit the index window [Start, End).
	Start uint64
	End   uint64
	// AtLeast and AtMost hold the operands of the "≥" and "≤" filters.
	AtLeast []string
	AtMost  []string
	// Even keeps only even values.
	Even bool
	// Lookup selects single-term mode: print term Index and exit.
	Lookup bool
	Index  uint64

	Preset    string
	Generator string
	Workers   int
	ChunkSize int
	Timeout   time.Duration

	TUI         bool
	Quiet       bool
	Verbose     bool
	NoColor     bool
	LogLevel    string
	MetricsAddr string
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Help requests surface as flag.ErrHelp; every other failure is an
// apperrors.ConfigError or ValidationError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	var ge, le stringList
	fs.StringVar(&config.Seed, "seed", DefaultSeed, "Starting pair `a,b` (terms 0 and 1).")
	fs.Uint64Var(&config.Start, "start", DefaultStart, "First index of the window (inclusive).")
	fs.Uint64Var(&config.End, "end", DefaultEnd, "Last index of the window (exclusive).")
	fs.Var(&ge, "ge", "Keep values `>= v`. Repeatable.")
	fs.Var(&le, "le", "Keep values `<= v`. Repeatable.")
	fs.BoolVar(&config.Even, "even", false, "Keep only even values.")
	fs.Uint64Var(&config.Index, "index", 0, "Print the single term at index `n` and exit.")
	fs.StringVar(&config.Preset, "preset", "", "Load a YAML plan preset from `file`.")
	fs.StringVar(&config.Generator, "generator", DefaultGenerator, "Bulk generator: linear or matrix.")
	fs.IntVar(&config.Workers, "workers", 0, "Goroutines per filtering chunk (0 = automatic).")
	fs.IntVar(&config.ChunkSize, "chunk-size", DefaultChunkSize, "Values per filtering chunk.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Abort the task after this duration.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the result in the interactive viewer.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the values, one per line.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print values in full and show task details.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on `addr` while running.")
	fs.Bool("version", false, "Print version information and exit.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintln(errorWriter, "Generates the terms [start, end) of the sequence a(n) = a(n-1) + a(n-2)")
		fmt.Fprintln(errorWriter, "seeded with a(0), a(1), keeping those accepted by every filter.")
		fmt.Fprintln(errorWriter)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	config.AtLeast, config.AtMost = ge, le
	config.Lookup = isFlagSet(fs, "index")

	applyEnvOverrides(&config, fs)

	if config.Preset != "" {
		p, err := LoadPreset(config.Preset)
		if err != nil {
			return AppConfig{}, err
		}
		p.applyTo(&config, fs)
	}

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks every field that parsing alone cannot.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return apperrors.NewConfigError("--chunk-size must be at least 1, got %d", c.ChunkSize)
	}
	if _, err := fibonacci.ParseKind(c.Generator); err != nil {
		return apperrors.NewConfigError("--generator: %v", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("--log-level: %v", err)
	}
	if _, err := ParseSeed(c.Seed); err != nil {
		return err
	}
	_, err := c.filters()
	return err
}

// GeneratorKind returns the configured bulk generator.
func (c AppConfig) GeneratorKind() fibonacci.Kind {
	kind, err := fibonacci.ParseKind(c.Generator)
	if err != nil {
		return fibonacci.KindLinear
	}
	return kind
}

// SeedPair returns the parsed starting pair.
func (c AppConfig) SeedPair() (*fibonacci.Pair, error) {
	return ParseSeed(c.Seed)
}

// Plan builds the task plan described by the configuration.
func (c AppConfig) Plan() (plan.Plan, error) {
	seed, err := ParseSeed(c.Seed)
	if err != nil {
		return plan.Plan{}, err
	}
	preds, err := c.filters()
	if err != nil {
		return plan.Plan{}, err
	}
	b := plan.NewBuilder().
		SetStartPair(seed).
		SetRange(plan.NewRange(c.Start, c.End))
	for _, p := range preds {
		b.AddFilter(p)
	}
	return b.Build(), nil
}

// FilterLabels describes the configured filters for display, e.g. "≥ 10".
func (c AppConfig) FilterLabels() []string {
	var out []string
	for _, v := range c.AtLeast {
		out = append(out, filter.OpGe.String()+" "+strings.TrimSpace(v))
	}
	for _, v := range c.AtMost {
		out = append(out, filter.OpLe.String()+" "+strings.TrimSpace(v))
	}
	if c.Even {
		out = append(out, "even")
	}
	return out
}

func (c AppConfig) filters() ([]filter.Predicate, error) {
	var preds []filter.Predicate
	for _, s := range c.AtLeast {
		v, err := ParseInt("ge", s)
		if err != nil {
			return nil, err
		}
		preds = append(preds, filter.AtLeast(v))
	}
	for _, s := range c.AtMost {
		v, err := ParseInt("le", s)
		if err != nil {
			return nil, err
		}
		preds = append(preds, filter.AtMost(v))
	}
	if c.Even {
		preds = append(preds, filter.Even())
	}
	return preds, nil
}

// ParseSeed parses "a,b" into a Pair. Both terms are arbitrary-precision
// decimal integers.
func ParseSeed(s string) (*fibonacci.Pair, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, apperrors.ValidationError{Field: "seed", Message: fmt.Sprintf("expected \"a,b\", got %q", s)}
	}
	first, err := ParseInt("seed", parts[0])
	if err != nil {
		return nil, err
	}
	second, err := ParseInt("seed", parts[1])
	if err != nil {
		return nil, err
	}
	return &fibonacci.Pair{First: first, Second: second}, nil
}

// ParseInt parses a decimal integer of any size for the named field.
func ParseInt(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q is not an integer", strings.TrimSpace(s))}
	}
	return v, nil
}
