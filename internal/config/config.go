// Package config provides the configuration schema, loader, and file watcher
// for the voxgate backchannel gate.
package config

import (
	"github.com/voxgate/voxgate/pkg/interrupt"
	"github.com/voxgate/voxgate/pkg/interrupt/phonetic"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for voxgate.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Interrupt InterruptConfig `yaml:"interrupt"`
}

// ServerConfig holds logging and metrics settings for the voxgate process.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr is the TCP address the Prometheus /metrics endpoint
	// listens on (e.g., ":9090"). Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// InterruptConfig configures the backchannel classifier.
type InterruptConfig struct {
	// FillerWords is the backchannel vocabulary. Hyphenated entries like
	// "uh-huh" are split by the tokenizer; list both parts separately for
	// compounds to be recognised.
	FillerWords []string `yaml:"filler_words"`

	// Enabled toggles backchannel suppression. When false every utterance
	// is forwarded as a real interruption.
	Enabled bool `yaml:"enabled"`

	// MaxIgnoredWords caps how many words an all-filler utterance may have
	// and still be suppressed. 0 disables the cap.
	MaxIgnoredWords int `yaml:"max_ignored_words"`

	// Verbose enables per-decision debug logging.
	Verbose bool `yaml:"verbose"`

	// Phonetic configures optional fuzzy matching of near-miss filler words.
	Phonetic PhoneticConfig `yaml:"phonetic"`
}

// PhoneticConfig configures the optional Double Metaphone / Jaro-Winkler
// filler matcher. Thresholds of 0 use the matcher defaults.
type PhoneticConfig struct {
	Enabled           bool    `yaml:"enabled"`
	PhoneticThreshold float64 `yaml:"phonetic_threshold"`
	FuzzyThreshold    float64 `yaml:"fuzzy_threshold"`
}

// Default returns the configuration used when fields are omitted from the
// YAML file: info logging, metrics on :9090, and the standard filler
// vocabulary with suppression enabled.
func Default() Config {
	return Config{
		Server: ServerConfig{
			LogLevel:    LogInfo,
			MetricsAddr: ":9090",
		},
		Interrupt: InterruptConfig{
			FillerWords: interrupt.DefaultFillerWords,
			Enabled:     true,
		},
	}
}

// ClassifierConfig translates the YAML block into the classifier's own
// config type, constructing the phonetic matcher when enabled.
func (c InterruptConfig) ClassifierConfig() interrupt.Config {
	cfg := interrupt.Config{
		FillerWords:     c.FillerWords,
		Enabled:         c.Enabled,
		MaxIgnoredWords: c.MaxIgnoredWords,
		Verbose:         c.Verbose,
	}
	if c.Phonetic.Enabled {
		var opts []phonetic.Option
		if c.Phonetic.PhoneticThreshold > 0 {
			opts = append(opts, phonetic.WithPhoneticThreshold(c.Phonetic.PhoneticThreshold))
		}
		if c.Phonetic.FuzzyThreshold > 0 {
			opts = append(opts, phonetic.WithFuzzyThreshold(c.Phonetic.FuzzyThreshold))
		}
		cfg.Matcher = phonetic.New(opts...)
	}
	return cfg
}
