package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Fields omitted from the document keep their [Default] values; an entirely
// empty document yields the defaults. Unknown fields are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Interrupt.MaxIgnoredWords < 0 {
		errs = append(errs, fmt.Errorf("interrupt.max_ignored_words %d is negative", cfg.Interrupt.MaxIgnoredWords))
	}

	if t := cfg.Interrupt.Phonetic.PhoneticThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("interrupt.phonetic.phonetic_threshold %.2f is out of range [0, 1]", t))
	}
	if t := cfg.Interrupt.Phonetic.FuzzyThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("interrupt.phonetic.fuzzy_threshold %.2f is out of range [0, 1]", t))
	}

	// An empty vocabulary is legal (every utterance then interrupts) but is
	// usually a config mistake, so call it out.
	if cfg.Interrupt.Enabled && len(cfg.Interrupt.FillerWords) == 0 {
		slog.Warn("interrupt.filler_words is empty; every non-empty utterance will be treated as an interruption")
	}

	return errors.Join(errs...)
}
