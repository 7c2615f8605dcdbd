package orchestration

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/filter"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/parallel"
	"github.com/agbru/fibseq/internal/plan"
)

const (
	// DefaultChunkSize is the number of values handed to one parallel
	// filtering pass.
	DefaultChunkSize = 1000
	// ProgressInterval is the number of generated values between two
	// progress events.
	ProgressInterval = 10

	// maxPrealloc caps the initial buffer capacity.
	maxPrealloc = 1 << 16

	tracerName = "github.com/agbru/fibseq/internal/orchestration"
)

// State is the phase a task is in.
type State int

const (
	StateValidating State = iota
	StateGenerating
	StateFiltering
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "Validating"
	case StateGenerating:
		return "Generating"
	case StateFiltering:
		return "Filtering"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MetricsRecorder receives task lifecycle measurements.
// *metrics.TaskMetrics implements it.
type MetricsRecorder interface {
	TaskStarted()
	TaskFinished(outcome string, elapsed time.Duration, generated, emitted int)
}

// Orchestrator runs sequence tasks. It holds configuration only; every task
// owns its own generator, buffers and stream, so one Orchestrator may run
// any number of tasks concurrently.
type Orchestrator struct {
	logger    logging.Logger
	metrics   MetricsRecorder
	tracer    trace.Tracer
	chunkSize int
	workers   int
	kind      fibonacci.Kind
	onState   func(taskID string, s State)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records task metrics on m.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer sets the tracer used for task spans. The default is the global
// otel tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithChunkSize sets the filtering chunk length. Values < 1 are ignored.
func WithChunkSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithWorkers bounds the goroutines used per chunk. Values < 1 select
// parallel.DefaultWorkers.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.workers = n }
}

// WithGenerator selects the producer used for bulk generation. Both kinds
// produce identical values; linear is the default.
func WithGenerator(kind fibonacci.Kind) Option {
	return func(o *Orchestrator) { o.kind = kind }
}

// WithStateHook registers f to be called, from the task goroutine, each time
// a task enters a new state.
func WithStateHook(f func(taskID string, s State)) Option {
	return func(o *Orchestrator) { o.onState = f }
}

// New returns an Orchestrator with the given options applied.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    logging.Nop(),
		tracer:    otel.Tracer(tracerName),
		chunkSize: DefaultChunkSize,
		kind:      fibonacci.KindLinear,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start launches the task described by p in a new goroutine and returns the
// stream it reports on. The stream is closed after its Result event.
// Cancelling ctx stops the task at its next progress boundary; it then
// reports an empty Result.
func (o *Orchestrator) Start(ctx context.Context, p plan.Plan) *Stream {
	s := newStream(newTaskID())
	go o.Run(ctx, p, s)
	return s
}

// NewStream creates a stream for use with Run.
func NewStream() *Stream {
	return newStream(newTaskID())
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run executes the task synchronously, reporting on s, and closes s.
func (o *Orchestrator) Run(ctx context.Context, p plan.Plan, s *Stream) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "fibseq.task", trace.WithAttributes(
		attribute.String("fibseq.task_id", s.ID()),
		attribute.String("fibseq.plan", p.String()),
		attribute.String("fibseq.generator", o.kind.String()),
	))
	defer span.End()

	if o.metrics != nil {
		o.metrics.TaskStarted()
	}

	t := &task{o: o, stream: s, span: span}
	values, generated, outcome, err := t.execute(ctx, p)

	s.send(Result(values))
	s.finish()

	elapsed := time.Since(start)
	if o.metrics != nil {
		o.metrics.TaskFinished(outcome, elapsed, generated, len(values))
	}
	span.SetAttributes(
		attribute.String("fibseq.outcome", outcome),
		attribute.Int("fibseq.generated", generated),
		attribute.Int("fibseq.survivors", len(values)),
	)

	fields := []logging.Field{
		logging.String("task_id", s.ID()),
		logging.String("outcome", outcome),
		logging.Int("values", generated),
		logging.Int("survivors", len(values)),
		logging.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error("task aborted", err, fields...)
		return
	}
	o.logger.Info("task finished", fields...)
}

// task is the state of one Run call.
type task struct {
	o      *Orchestrator
	stream *Stream
	span   trace.Span
}

func (t *task) enter(s State) {
	t.o.logger.Debug("state transition", logging.String("task_id", t.stream.ID()), logging.String("state", s.String()))
	t.span.AddEvent("state", trace.WithAttributes(attribute.String("fibseq.state", s.String())))
	if t.o.onState != nil {
		t.o.onState(t.stream.ID(), s)
	}
}

func (t *task) progress(processed, total uint64) {
	t.stream.send(Progress(Percent(processed, total)))
}

// execute walks the state machine. It returns the surviving values, the
// number of generated values, and the metrics outcome label.
func (t *task) execute(ctx context.Context, p plan.Plan) ([]*big.Int, int, string, error) {
	t.enter(StateValidating)
	if p.HasNoWork() || !p.Runnable() {
		t.enter(StateCompleted)
		return nil, 0, metrics.OutcomeNoWork, nil
	}
	window, _ := p.Range()
	if window.Len() == 0 {
		t.enter(StateCompleted)
		return nil, 0, metrics.OutcomeNoWork, nil
	}

	t.enter(StateGenerating)
	raw, err := t.generate(ctx, p.StartPair(), window)
	if err != nil {
		return nil, len(raw), outcomeFor(err), err
	}

	t.enter(StateFiltering)
	out, err := t.filter(ctx, raw, p.Filters())
	if err != nil {
		return nil, len(raw), outcomeFor(err), err
	}

	t.enter(StateCompleted)
	return out, len(raw), metrics.OutcomeCompleted, nil
}

func outcomeFor(err error) string {
	if apperrors.IsContextError(err) {
		return metrics.OutcomeCanceled
	}
	return metrics.OutcomeFailed
}

// generate materializes the terms of window. Terms 0 and 1 come from the
// seed. Later terms come from a producer positioned at max(start, 2), which
// then yields end-2 terms, so a window starting past index 2 runs beyond end.
// Progress counts every buffered value against end-start and is emitted on
// each 10th value and when the count reaches that total.
func (t *task) generate(ctx context.Context, seed *fibonacci.Pair, window plan.Range) ([]*big.Int, error) {
	total := window.Len()
	buf := make([]*big.Int, 0, min(total, maxPrealloc))

	for idx := window.Start; idx < window.End && idx < 2; idx++ {
		buf = append(buf, seedTerm(seed, idx))
		t.progress(uint64(len(buf)), total)
	}
	if window.End <= 2 {
		return buf, nil
	}

	take := window.End - 2
	var taken uint64
	for v := range fibonacci.Values(producerAt(t.o.kind, seed, max(window.Start, 2))) {
		buf = append(buf, v)
		taken++
		if n := uint64(len(buf)); n%ProgressInterval == 0 || n == total {
			if err := ctx.Err(); err != nil {
				return buf, err
			}
			t.progress(n, total)
		}
		if taken == take {
			break
		}
	}
	return buf, ctx.Err()
}

// filter keeps the values accepted by every predicate of set, evaluating one
// chunk at a time with parallel.FilterChunk.
func (t *task) filter(ctx context.Context, raw []*big.Int, set *filter.Set) ([]*big.Int, error) {
	if set.Empty() {
		t.progress(1, 1)
		return raw, nil
	}

	total := uint64(len(raw))
	var out []*big.Int
	for lo := 0; lo < len(raw); lo += t.o.chunkSize {
		hi := min(lo+t.o.chunkSize, len(raw))
		kept, err := parallel.FilterChunk(ctx, raw[lo:hi], set, t.o.workers)
		if err != nil {
			return nil, fmt.Errorf("filtering chunk [%d, %d): %w", lo, hi, err)
		}
		out = append(out, kept...)
		t.progress(uint64(hi), total)
	}
	return out, nil
}
