// Package rubric scores a single note against the ten-point Note Vitality
// Quotient rubric. Every function here is pure: no I/O, no stored state, no
// errors outside configuration validation.
package rubric

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultPassingThreshold is the NVQ total at or above which a note passes.
const DefaultPassingThreshold = 7

// Goal is one configured user goal a purpose statement can link to.
type Goal struct {
	Title   string `yaml:"title" json:"title"`
	WhyRoot string `yaml:"why_root" json:"why_root"`
}

// Config is the immutable evaluator configuration. It is passed explicitly
// into every call so batches of notes can be scored concurrently without
// shared state.
type Config struct {
	MOCs             []string `yaml:"mocs" json:"mocs"`
	Projects         []string `yaml:"projects" json:"projects"`
	Goals            []Goal   `yaml:"goals" json:"goals"`
	PassingThreshold int      `yaml:"passing_threshold" json:"passing_threshold"`
}

// Validate rejects out-of-range thresholds. A negative threshold is the one
// fatal configuration error; everything else degrades to a score.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PassingThreshold, validation.Min(0), validation.Max(10)),
	)
}

// DefaultConfig returns an empty-vault configuration with the default
// passing threshold.
func DefaultConfig() Config {
	return Config{PassingThreshold: DefaultPassingThreshold}
}
