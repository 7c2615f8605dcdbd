package config

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/filter"
)

// Preset is a reusable plan stored as YAML:
//
//	seed: ["2", "1"]
//	range: {start: 0, end: 40}
//	filters:
//	  - {op: ge, value: "100"}
//	  - {op: le, value: "100000"}
//	even: true
//	generator: matrix
//
// Every field is optional. Integer operands are strings so they may exceed
// 64 bits.
type Preset struct {
	Seed      []string       `yaml:"seed"`
	Range     *PresetRange   `yaml:"range"`
	Filters   []PresetFilter `yaml:"filters"`
	Even      *bool          `yaml:"even"`
	Generator string         `yaml:"generator"`
}

// PresetRange is the index window of a preset.
type PresetRange struct {
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// PresetFilter is one comparison row of a preset.
type PresetFilter struct {
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
}

// LoadPreset reads and validates the preset at path. Unknown fields are
// rejected so typos do not silently drop a filter.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("reading preset: %v", err)
	}
	return ParsePreset(data)
}

// ParsePreset decodes and validates a YAML preset.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, apperrors.NewConfigError("parsing preset: %v", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Preset) validate() error {
	if p.Seed != nil && len(p.Seed) != 2 {
		return apperrors.NewConfigError("preset seed must have two terms, got %d", len(p.Seed))
	}
	for i, f := range p.Filters {
		if _, err := filter.ParseOp(f.Op); err != nil {
			return apperrors.NewConfigError("preset filter %d: %v", i, err)
		}
		if _, err := ParseInt("filters.value", f.Value); err != nil {
			return apperrors.WrapError(err, "preset filter %d", i)
		}
	}
	return nil
}

// applyTo fills the settings that neither a flag nor the environment set.
func (p *Preset) applyTo(c *AppConfig, fs *flag.FlagSet) {
	if p.Seed != nil && !overridden(fs, "SEED", "seed") {
		c.Seed = fmt.Sprintf("%s,%s", p.Seed[0], p.Seed[1])
	}
	if p.Range != nil {
		if !overridden(fs, "START", "start") {
			c.Start = p.Range.Start
		}
		if !overridden(fs, "END", "end") {
			c.End = p.Range.End
		}
	}
	if len(p.Filters) > 0 && !overridden(fs, "GE", "ge") && !overridden(fs, "LE", "le") {
		c.AtLeast, c.AtMost = nil, nil
		for _, f := range p.Filters {
			// ops were checked in validate
			if op, _ := filter.ParseOp(f.Op); op == filter.OpGe {
				c.AtLeast = append(c.AtLeast, f.Value)
			} else {
				c.AtMost = append(c.AtMost, f.Value)
			}
		}
	}
	if p.Even != nil && !overridden(fs, "EVEN", "even") {
		c.Even = *p.Even
	}
	if p.Generator != "" && !overridden(fs, "GENERATOR", "generator") {
		c.Generator = p.Generator
	}
}
