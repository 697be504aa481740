package config

import "slices"

// ConfigDiff describes what changed between two configs. Every tracked field
// can be hot-applied without a restart.
type ConfigDiff struct {
	// LogLevelChanged is true when server.log_level changed.
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// FillerWordsChanged is true when the vocabulary list changed. Maps to
	// an atomic ReplaceFillerWords on the classifier.
	FillerWordsChanged bool

	// BehaviorChanged is true when enabled, max_ignored_words, verbose, or
	// the phonetic block changed. Maps to a full classifier SetConfig.
	BehaviorChanged bool
}

// Changed reports whether the diff contains any change at all.
func (d ConfigDiff) Changed() bool {
	return d.LogLevelChanged || d.FillerWordsChanged || d.BehaviorChanged
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !slices.Equal(old.Interrupt.FillerWords, new.Interrupt.FillerWords) {
		d.FillerWordsChanged = true
	}

	if old.Interrupt.Enabled != new.Interrupt.Enabled ||
		old.Interrupt.MaxIgnoredWords != new.Interrupt.MaxIgnoredWords ||
		old.Interrupt.Verbose != new.Interrupt.Verbose ||
		old.Interrupt.Phonetic != new.Interrupt.Phonetic {
		d.BehaviorChanged = true
	}

	return d
}
