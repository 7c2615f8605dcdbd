package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmpDir := t.TempDir()
	binName := "fibseq"
	if runtime.GOOS == "windows" {
		binName = "fibseq.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in test/e2e; build from the module root.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/fibseq")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build fibseq: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{"Even values", []string{"--end", "12", "--even", "-q"}, "0\n2\n8\n34\n", 0},
		{"Bounded window", []string{"--start", "10", "--end", "15", "--le", "300"}, "4 values in", 0},
		{"Lookup", []string{"--index", "100", "-q"}, "354224848179261915075", 0},
		{"Lucas seed", []string{"--seed", "2,1", "--index", "10", "-q"}, "123", 0},
		{"Matrix generator", []string{"--generator", "matrix", "--start", "90", "--end", "92", "-q"}, "2880067194370816120\n4660046610375530309", 0},
		{"Empty window", []string{"--start", "5", "--end", "5"}, "no values matched", 0},
		{"Help", []string{"--help"}, "usage", 0},
		{"Version Flag", []string{"--version"}, "fibseq", 0},
		{"Invalid seed", []string{"--seed", "x,1"}, "configuration error", 4},
		{"Unknown generator", []string{"--generator", "fft"}, "generator", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("command did not run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
