package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/agbru/fibseq/internal/config"
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/orchestration"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestCLIResultPresenter_Golden(t *testing.T) {
	twelve := make([]int64, 12)
	for i := range twelve {
		twelve[i] = int64(i * i)
	}

	tests := []struct {
		name string
		res  orchestration.TaskResult
		opts orchestration.PresentationOptions
	}{
		{
			name: "even_window",
			res:  orchestration.TaskResult{Values: ints(0, 2, 8, 34), Duration: 3 * time.Millisecond},
			opts: orchestration.PresentationOptions{Header: "seed=(0, 1) range=[0, 12) filters=1"},
		},
		{
			name: "no_match",
			res:  orchestration.TaskResult{Duration: 500 * time.Microsecond},
		},
		{
			name: "truncated",
			res:  orchestration.TaskResult{Values: []*big.Int{pow10(120)}, Duration: 250 * time.Microsecond},
		},
		{
			name: "aligned_indices",
			res:  orchestration.TaskResult{Values: ints(twelve...), Duration: 1200 * time.Millisecond},
		},
		{
			name: "quiet",
			res:  orchestration.TaskResult{Values: ints(1, 2, 3), Duration: time.Second},
			opts: orchestration.PresentationOptions{Quiet: true, Header: "ignored"},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			CLIResultPresenter{}.PresentResult(tt.res, tt.opts, &buf)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestCLIResultPresenter_HandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"Nil error", nil, apperrors.ExitSuccess, ""},
		{"Config error", apperrors.NewConfigError("bad seed"), apperrors.ExitErrorConfig, "Configuration error: bad seed"},
		{"Validation error", apperrors.ValidationError{Field: "le", Message: "not an integer"}, apperrors.ExitErrorConfig, "Configuration error"},
		{"Deadline", fmt.Errorf("task: %w", context.DeadlineExceeded), apperrors.ExitErrorTimeout, "Timed out after 1s."},
		{"Timeout error", apperrors.TimeoutError{Operation: "task", Limit: time.Second}, apperrors.ExitErrorTimeout, "Timed out after 1s: "},
		{"Canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled after 1s."},
		{"Canceled task", apperrors.TaskError{TaskID: "t1", Cause: context.Canceled}, apperrors.ExitErrorCanceled, "Canceled after 1s."},
		{"Timed out task", apperrors.TaskError{TaskID: "t1", Cause: apperrors.TimeoutError{Operation: "task", Limit: time.Minute}}, apperrors.ExitErrorTimeout, `Timed out after 1s: operation "task" timed out after 1m0s`},
		{"Generic", errors.New("boom"), apperrors.ExitErrorGeneric, "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := CLIResultPresenter{}.HandleError(tt.err, time.Second, &buf)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantText == "" && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output %q should contain %q", buf.String(), tt.wantText)
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{
		Seed:      "2,1",
		Start:     5,
		End:       50,
		AtLeast:   []string{"100"},
		Even:      true,
		Generator: "matrix",
		ChunkSize: 1000,
		Timeout:   time.Minute,
	}
	var buf bytes.Buffer
	PrintExecutionConfig(cfg, &buf)
	out := buf.String()

	for _, want := range []string{
		"Seed (2,1), indices [5, 50), filters ≥ 100, even.",
		"Generator matrix, chunk size 1000, timeout 1m0s.",
		"logical processors",
		"--- Starting Execution ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}
