package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/fibseq/internal/fibonacci"
)

const lucasPreset = `
seed: ["2", "1"]
range: {start: 1, end: 40}
filters:
  - {op: ge, value: "100"}
  - {op: "≤", value: "100000"}
even: true
generator: matrix
`

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParsePreset(t *testing.T) {
	t.Parallel()
	p, err := ParsePreset([]byte(lucasPreset))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Seed) != 2 || p.Range == nil || p.Range.End != 40 || len(p.Filters) != 2 || p.Even == nil || !*p.Even {
		t.Errorf("decoded preset = %+v", p)
	}
}

func TestParsePreset_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"Unknown field", "seeds: [\"0\", \"1\"]\n", "field seeds not found"},
		{"Seed arity", "seed: [\"0\"]\n", "two terms"},
		{"Bad op", "filters:\n  - {op: lt, value: \"3\"}\n", "preset filter 0"},
		{"Bad value", "filters:\n  - {op: ge, value: \"x\"}\n", "preset filter 0"},
		{"Not YAML", "range: [", "parsing preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePreset([]byte(tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadPreset_Missing(t *testing.T) {
	t.Parallel()
	if _, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseConfig_Preset(t *testing.T) {
	path := writePreset(t, lucasPreset)
	cfg, err := ParseConfig("fibseq", []string{"--preset", path}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != "2,1" || cfg.Start != 1 || cfg.End != 40 || !cfg.Even {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.GeneratorKind() != fibonacci.KindMatrix {
		t.Errorf("generator = %s, want matrix", cfg.Generator)
	}
	if len(cfg.AtLeast) != 1 || cfg.AtLeast[0] != "100" || len(cfg.AtMost) != 1 || cfg.AtMost[0] != "100000" {
		t.Errorf("filters = ge %v le %v", cfg.AtLeast, cfg.AtMost)
	}
}

func TestParseConfig_PresetPriority(t *testing.T) {
	path := writePreset(t, lucasPreset)
	t.Setenv("FIBSEQ_START", "5")

	cfg, err := ParseConfig("fibseq", []string{"--preset", path, "--end", "10", "--le", "50"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Start != 5 {
		t.Errorf("Start = %d, env should win over the preset", cfg.Start)
	}
	if cfg.End != 10 {
		t.Errorf("End = %d, flag should win over the preset", cfg.End)
	}
	if len(cfg.AtLeast) != 0 || len(cfg.AtMost) != 1 || cfg.AtMost[0] != "50" {
		t.Errorf("flag filters should replace preset filters: ge %v le %v", cfg.AtLeast, cfg.AtMost)
	}
}
