package orchestration

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/filter"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/plan"
)

// runPlan executes p synchronously and returns every emitted event.
func runPlan(t *testing.T, o *Orchestrator, p plan.Plan) []Event {
	t.Helper()
	s := NewStream()
	o.Run(context.Background(), p, s)
	events, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(events) == 0 || !events[len(events)-1].IsTerminal() {
		t.Fatalf("stream did not end with a Result: %v", events)
	}
	for _, e := range events[:len(events)-1] {
		if e.IsTerminal() {
			t.Fatalf("Result before the end of the stream: %v", events)
		}
	}
	return events
}

func percents(events []Event) []uint8 {
	var out []uint8
	for _, e := range events {
		if e.Kind == EventProgress {
			out = append(out, e.Percent)
		}
	}
	return out
}

func resultStrings(events []Event) []string {
	last := events[len(events)-1]
	out := make([]string, len(last.Values))
	for i, v := range last.Values {
		out[i] = v.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	return strings.Join(a, ",") == strings.Join(b, ",")
}

func TestOrchestrator_EvenFilterOverFirstTwelve(t *testing.T) {
	t.Parallel()
	p := plan.NewBuilder().
		SetStartPair(fibonacci.NewPair(0, 1)).
		SetRange(plan.NewRange(0, 12)).
		AddFilter(filter.Even()).
		Build()

	events := runPlan(t, New(), p)

	if got, want := resultStrings(events), []string{"0", "2", "8", "34"}; !equalStrings(got, want) {
		t.Errorf("result = %v, want %v", got, want)
	}
	pcts := percents(events)
	if want := []uint8{8, 16, 83, 100, 100}; string(pcts) != string(want) {
		t.Errorf("progress = %v, want %v", pcts, want)
	}
}

func TestOrchestrator_NoWorkYieldsSingleEmptyResult(t *testing.T) {
	t.Parallel()
	seed := fibonacci.NewPair(0, 1)
	tests := []struct {
		name string
		p    plan.Plan
	}{
		{"Empty plan", plan.NewBuilder().Build()},
		{"Zero plan", plan.Plan{}},
		{"Seed only", plan.NewBuilder().SetStartPair(seed).Build()},
		{"Missing seed", plan.NewBuilder().SetRange(plan.NewRange(0, 10)).Build()},
		{"Missing range", plan.NewBuilder().SetStartPair(seed).AddFilter(filter.Even()).Build()},
		{"Inverted range", plan.NewBuilder().SetStartPair(seed).SetRange(plan.NewRange(10, 3)).Build()},
		{"Inverted range with filters", plan.NewBuilder().SetStartPair(seed).SetRange(plan.NewRange(7, 6)).AddFilter(filter.Even()).Build()},
		{"Empty range", plan.NewBuilder().SetStartPair(seed).SetRange(plan.NewRange(4, 4)).Build()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			events := runPlan(t, New(), tt.p)
			if len(events) != 1 {
				t.Fatalf("got %d events (%v), want exactly one Result", len(events), events)
			}
			if n := len(events[0].Values); n != 0 {
				t.Errorf("Result carries %d values, want 0", n)
			}
		})
	}
}

func TestOrchestrator_Windows(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		seed  *fibonacci.Pair
		start uint64
		end   uint64
		want  []string
	}{
		{"Only index 0", fibonacci.NewPair(0, 1), 0, 1, []string{"0"}},
		{"Only index 1", fibonacci.NewPair(0, 1), 1, 2, []string{"1"}},
		{"Seed terms then generated", fibonacci.NewPair(2, 1), 0, 6, []string{"2", "1", "3", "4", "7", "11"}},
		{"Window after the seed takes end-2 terms", fibonacci.NewPair(0, 1), 5, 8, []string{"5", "8", "13", "21", "34", "55"}},
		{"Window after the seed, Lucas", fibonacci.NewPair(2, 1), 3, 6, []string{"4", "7", "11", "18"}},
		{"Window straddling index 2", fibonacci.NewPair(0, 1), 1, 4, []string{"1", "1", "2"}},
		{"Negative seed", fibonacci.NewPair(-5, 3), 0, 5, []string{"-5", "3", "-2", "1", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, kind := range []fibonacci.Kind{fibonacci.KindLinear, fibonacci.KindMatrix} {
				p := plan.NewBuilder().SetStartPair(tt.seed).SetRange(plan.NewRange(tt.start, tt.end)).Build()
				events := runPlan(t, New(WithGenerator(kind)), p)
				if got := resultStrings(events); !equalStrings(got, tt.want) {
					t.Errorf("%s: result = %v, want %v", kind, got, tt.want)
				}
			}
		})
	}
}

func TestOrchestrator_DistantWindowUsesDirectPath(t *testing.T) {
	t.Parallel()
	start := uint64(JumpThreshold + 500)
	p := plan.NewBuilder().SetStartPair(nil).SetRange(plan.NewRange(start, start+3)).Build()
	// A nil seed leaves the plan without a start pair.
	if events := runPlan(t, New(), p); len(events) != 1 {
		t.Fatalf("nil seed should be no work, got %v", events)
	}

	p = plan.NewBuilder().SetStartPair(fibonacci.DefaultPair()).SetRange(plan.NewRange(start, start+3)).Build()
	linear := resultStrings(runPlan(t, New(), p))
	matrix := resultStrings(runPlan(t, New(WithGenerator(fibonacci.KindMatrix)), p))
	if !equalStrings(linear, matrix) {
		t.Fatal("linear and matrix producers disagree on a distant window")
	}
	if uint64(len(linear)) != start+1 {
		t.Fatalf("got %d values, want end-2 = %d", len(linear), start+1)
	}
	for _, i := range []uint64{0, 1, 2, start} {
		if want := fibonacci.Term(nil, start+i).String(); linear[i] != want {
			t.Errorf("term %d mismatch", start+i)
		}
	}
}

func TestOrchestrator_IdentityFilteringEmitsOneFullProgress(t *testing.T) {
	t.Parallel()
	var (
		mu             sync.Mutex
		beforeFiltered int
	)
	s := NewStream()
	o := New(WithStateHook(func(_ string, st State) {
		if st == StateFiltering {
			mu.Lock()
			defer mu.Unlock()
			s.mu.Lock()
			beforeFiltered = len(s.buf)
			s.mu.Unlock()
		}
	}))
	p := plan.NewBuilder().SetStartPair(fibonacci.NewPair(3, 4)).SetRange(plan.NewRange(0, 57)).Build()
	o.Run(context.Background(), p, s)

	events, _ := s.Collect(context.Background())
	mu.Lock()
	filtering := events[beforeFiltered : len(events)-1]
	mu.Unlock()
	if len(filtering) != 1 || filtering[0].Kind != EventProgress || filtering[0].Percent != 100 {
		t.Errorf("filtering phase events = %v, want [Progress(100)]", filtering)
	}
	if n := len(events[len(events)-1].Values); n != 57 {
		t.Errorf("identity filter kept %d values, want 57", n)
	}
}

func TestOrchestrator_ChunkProgress(t *testing.T) {
	t.Parallel()
	p := plan.NewBuilder().
		SetStartPair(fibonacci.NewPair(0, 1)).
		SetRange(plan.NewRange(0, 2500)).
		AddFilter(filter.AtLeast(big.NewInt(0))).
		Build()

	events := runPlan(t, New(WithWorkers(4)), p)
	pcts := percents(events)
	tail := pcts[len(pcts)-3:]
	if want := []uint8{40, 80, 100}; string(tail) != string(want) {
		t.Errorf("filtering progress = %v, want %v", tail, want)
	}
	if n := len(events[len(events)-1].Values); n != 2500 {
		t.Errorf("got %d survivors, want 2500", n)
	}
}

func TestOrchestrator_GenerationProgressCadence(t *testing.T) {
	t.Parallel()
	// 2 seed terms + 25 generated terms: events after each seed, then each
	// time the buffered count reaches a multiple of 10 or the total.
	p := plan.NewBuilder().SetStartPair(fibonacci.NewPair(0, 1)).SetRange(plan.NewRange(0, 27)).Build()
	events := runPlan(t, New(), p)

	got := percents(events)
	want := []uint8{
		Percent(1, 27), Percent(2, 27),
		Percent(10, 27), Percent(20, 27), Percent(27, 27),
		100,
	}
	if string(got) != string(want) {
		t.Errorf("progress = %v, want %v", got, want)
	}
}

func TestOrchestrator_ProgressPastTotalIsClamped(t *testing.T) {
	t.Parallel()
	// [5, 15) buffers 13 terms against a total of 10: the count hits the
	// total at 10 and no later value pushes the percentage past 100.
	p := plan.NewBuilder().
		SetStartPair(fibonacci.NewPair(0, 1)).
		SetRange(plan.NewRange(5, 15)).
		AddFilter(filter.AtLeast(big.NewInt(0))).
		Build()
	events := runPlan(t, New(), p)

	if got, want := percents(events), []uint8{100, 100}; string(got) != string(want) {
		t.Errorf("progress = %v, want %v", got, want)
	}
	if n := len(events[len(events)-1].Values); n != 13 {
		t.Errorf("got %d values, want 13", n)
	}
}

func TestOrchestrator_Idempotent(t *testing.T) {
	t.Parallel()
	p := plan.NewBuilder().
		SetStartPair(fibonacci.NewPair(7, -3)).
		SetRange(plan.NewRange(3, 1800)).
		AddFilter(filter.DivisibleBy(big.NewInt(3))).
		AddFilterFunc(func(v *big.Int) bool { return v.Sign() != 0 }).
		Build()
	o := New(WithChunkSize(128), WithWorkers(3))

	first := resultStrings(runPlan(t, o, p))
	for i := 0; i < 3; i++ {
		if again := resultStrings(runPlan(t, o, p)); !equalStrings(first, again) {
			t.Fatalf("run %d differs from the first run", i+2)
		}
	}
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rec := &fakeRecorder{}
	o := New(WithLogger(logging.NewLogger(&buf, "test")), WithMetrics(rec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStream()
	p := plan.NewBuilder().SetStartPair(fibonacci.DefaultPair()).SetRange(plan.NewRange(0, 1000)).Build()
	o.Run(ctx, p, s)

	events, _ := s.Collect(context.Background())
	last := events[len(events)-1]
	if !last.IsTerminal() || len(last.Values) != 0 {
		t.Errorf("canceled task ended with %v, want empty Result", last)
	}
	if rec.outcome != metrics.OutcomeCanceled {
		t.Errorf("outcome = %q, want %q", rec.outcome, metrics.OutcomeCanceled)
	}
	if !strings.Contains(buf.String(), "task aborted") {
		t.Errorf("expected an error log entry, got: %s", buf.String())
	}
}

func TestOrchestrator_PanickingPredicate(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	p := plan.NewBuilder().
		SetStartPair(fibonacci.DefaultPair()).
		SetRange(plan.NewRange(0, 300)).
		AddFilterFunc(func(*big.Int) bool { panic("bad predicate") }).
		Build()

	events := runPlan(t, New(WithMetrics(rec)), p)
	if n := len(events[len(events)-1].Values); n != 0 {
		t.Errorf("got %d values, want 0", n)
	}
	if rec.outcome != metrics.OutcomeFailed {
		t.Errorf("outcome = %q, want %q", rec.outcome, metrics.OutcomeFailed)
	}
}

func TestOrchestrator_StatesAndInstrumentation(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	var states []State
	rec := &fakeRecorder{}
	o := New(
		WithLogger(logging.NewLogger(&buf, "orchestrator")),
		WithMetrics(rec),
		WithTracer(noop.NewTracerProvider().Tracer("test")),
		WithStateHook(func(_ string, s State) { states = append(states, s) }),
	)
	p := plan.NewBuilder().SetStartPair(fibonacci.DefaultPair()).SetRange(plan.NewRange(0, 30)).AddFilter(filter.Even()).Build()
	s := NewStream()
	o.Run(context.Background(), p, s)

	want := []State{StateValidating, StateGenerating, StateFiltering, StateCompleted}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
	if rec.started != 1 || rec.outcome != metrics.OutcomeCompleted || rec.generated != 30 || rec.emitted != 10 {
		t.Errorf("recorder = %+v", rec)
	}
	out := buf.String()
	for _, want := range []string{"task finished", s.ID(), `"survivors":10`} {
		if !strings.Contains(out, want) {
			t.Errorf("log should contain %q, got: %s", want, out)
		}
	}
}

func TestOrchestrator_StartAndDetach(t *testing.T) {
	t.Parallel()
	o := New()
	p := plan.NewBuilder().SetStartPair(fibonacci.DefaultPair()).SetRange(plan.NewRange(0, 5000)).Build()

	s := o.Start(context.Background(), p)
	s.Detach()

	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("task did not complete after the consumer detached")
	}
	if s.Dropped() == 0 {
		t.Error("expected events to be dropped after Detach")
	}

	s2 := o.Start(context.Background(), p)
	res := Await(context.Background(), s2, nil)
	if res.Err != nil || len(res.Values) != 5000 {
		t.Errorf("Await = %d values, err %v", len(res.Values), res.Err)
	}
	if res.ID == "" || res.ID == s.ID() {
		t.Errorf("task IDs should be unique and non-empty: %q, %q", res.ID, s.ID())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	if StateFiltering.String() != "Filtering" || State(9).String() != "State(9)" {
		t.Error("unexpected State names")
	}
}

// TestOrchestrator_PropertyBased checks, for arbitrary seeds and windows,
// that every progress event lies in [0, 100], the last progress is 100 and
// the result matches the direct matrix lookup of each index.
func TestOrchestrator_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("windows follow the skip/take rule and progress is bounded", prop.ForAll(
		func(a, b int64, start, length uint64, chunk int) bool {
			seed := fibonacci.NewPair(a, b)
			p := plan.NewBuilder().
				SetStartPair(seed).
				SetRange(plan.NewRange(start, start+length)).
				AddFilter(filter.AtLeast(big.NewInt(-1 << 62))).
				Build()

			s := NewStream()
			New(WithChunkSize(chunk)).Run(context.Background(), p, s)
			events, err := s.Collect(context.Background())
			if err != nil || len(events) == 0 {
				return false
			}
			pcts := percents(events)
			for _, pc := range pcts {
				if pc > 100 {
					return false
				}
			}
			if length > 0 && pcts[len(pcts)-1] != 100 {
				return false
			}

			m := fibonacci.NewMatrix(seed)
			var want []*big.Int
			for _, i := range windowIndices(start, start+length) {
				if v := m.CalcOne(i); v.Cmp(big.NewInt(-1<<62)) >= 0 {
					want = append(want, v)
				}
			}
			got := events[len(events)-1].Values
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i].Cmp(want[i]) != 0 {
					return false
				}
			}
			return true
		},
		gen.Int64Range(-100, 100),
		gen.Int64Range(-100, 100),
		gen.UInt64Range(0, 40),
		gen.UInt64Range(0, 120),
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

// windowIndices lists the term indices a task over [start, end) produces:
// the seed indices inside the window, then end-2 terms from max(start, 2).
func windowIndices(start, end uint64) []uint64 {
	var out []uint64
	for i := start; i < end && i < 2; i++ {
		out = append(out, i)
	}
	if end <= 2 {
		return out
	}
	first := max(start, 2)
	for i := uint64(0); i < end-2; i++ {
		out = append(out, first+i)
	}
	return out
}

func TestWindowIndices(t *testing.T) {
	t.Parallel()
	tests := []struct {
		start, end uint64
		want       []uint64
	}{
		{0, 4, []uint64{0, 1, 2, 3}},
		{1, 3, []uint64{1, 2}},
		{5, 8, []uint64{5, 6, 7, 8, 9, 10}},
		{3, 3, nil},
	}
	for _, tt := range tests {
		got := windowIndices(tt.start, tt.end)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("windowIndices(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

type fakeRecorder struct {
	started            int
	outcome            string
	generated, emitted int
}

func (f *fakeRecorder) TaskStarted() { f.started++ }

func (f *fakeRecorder) TaskFinished(outcome string, _ time.Duration, generated, emitted int) {
	f.outcome, f.generated, f.emitted = outcome, generated, emitted
}
