package main

import (
	"github.com/rs/zerolog"

	"github.com/tawa-lang/tawa/internal/logging"
)

// zerologLevel maps the verbosity channels into a single zerolog cutoff:
// any channel enabled drops the level to Debug so its gated LogXxx calls
// actually reach the writer, matching the original Debug struct's
// coarse on/off channel switches (apps wire one environment variable
// per channel, never a graduated level).
func zerologLevel(flags *globalFlags) zerolog.Level {
	if flags.progress > 0 || flags.rangeDump || flags.level > 0 || flags.level1 > 0 {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func channels(flags *globalFlags) logging.Channels {
	return logging.Channels{
		Progress: flags.progress,
		Range:    flags.rangeDump,
		Level:    flags.level,
		Level1:   flags.level1,
	}
}
