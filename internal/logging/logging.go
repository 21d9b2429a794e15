// Package logging sets up the zerolog logger shared by the command
// drivers and provides the debug-channel helpers of spec.md §6:
// "progress counter every N input positions, range dump flag (coder
// inputs), level / level1 (search verbosity)". These are side effects on
// stderr only; they never alter encoded output, grounded on
// original_source/Tawa-0.7's global `Debug` struct (`Debug.progress`,
// `Debug.range`, `Debug.level`, `Debug.level1`, `Debug.coder`,
// `Debug.coder_target`) read throughout paths.c, coder.c, and word.c.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger, writing to stderr. pretty selects
// zerolog's human-readable console writer over newline-delimited JSON;
// command drivers attached to a terminal default to pretty, piped output
// defaults to JSON.
func New(level zerolog.Level, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Channels mirrors the original Debug global: every field is a
// zero-valued "off" by default, set from command-line flags (spec.md §6
// debug channels).
type Channels struct {
	// Progress logs a position/throughput line every N input positions
	// processed; 0 disables it.
	Progress int
	// Range dumps each processed non-word/word token range (word.c's
	// Debug.range).
	Range bool
	// Level and Level1 gate increasingly verbose search-engine tracing
	// (paths.c's Debug.level / Debug.level1 thresholds).
	Level  int
	Level1 int
	// Coder and CoderTarget dump the (l, h, t) ranges and decode targets
	// the arithmetic coder computes (coder.c's Debug.coder /
	// Debug.coder_target).
	Coder       bool
	CoderTarget bool
}

// ShouldLogProgress reports whether pos is a progress-reporting
// checkpoint under c's configured interval.
func (c Channels) ShouldLogProgress(pos int) bool {
	return c.Progress > 0 && pos%c.Progress == 0
}

// LogProgress emits a progress line if pos is a checkpoint, mirroring
// paths.c's "Processing word pos %d bytes input %d bytes output %d %.3f
// bpc" diagnostic.
func (c Channels) LogProgress(log zerolog.Logger, pos, bytesIn, bytesOut int) {
	if !c.ShouldLogProgress(pos) {
		return
	}
	bpc := 0.0
	if bytesIn > 0 {
		bpc = 8.0 * float64(bytesOut) / float64(bytesIn)
	}
	log.Debug().
		Int("pos", pos).
		Int("bytes_in", bytesIn).
		Int("bytes_out", bytesOut).
		Float64("bits_per_char", bpc).
		Msg("progress")
}

// LogRange emits a processed-token dump when Range is enabled, mirroring
// word.c's "Processed non-word {...}" / "Processed word {...}" dumps.
func (c Channels) LogRange(log zerolog.Logger, label string, token []byte) {
	if !c.Range {
		return
	}
	log.Debug().Str("label", label).Bytes("token", token).Msg("range")
}

// AtLevel reports whether the finer-grained search-verbosity threshold
// (Level1) exceeds n (paths.c's "Debug.level1 > N" guards).
func (c Channels) AtLevel(n int) bool { return c.Level1 > n }

// LogSearch emits a search-engine trace line if the configured Level1
// exceeds threshold, mirroring paths.c's graduated Debug.level1 checks.
func (c Channels) LogSearch(log zerolog.Logger, threshold int, msg string, fields map[string]any) {
	if !c.AtLevel(threshold) {
		return
	}
	evt := log.Debug()
	for k, v := range fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg(msg)
}

// LogCoderRange emits a coder (low, high, total) dump when Coder is
// enabled, mirroring coder.c's Debug.coder check around its range
// updates.
func (c Channels) LogCoderRange(log zerolog.Logger, low, high, total uint32) {
	if !c.Coder {
		return
	}
	log.Debug().Uint32("low", low).Uint32("high", high).Uint32("total", total).Msg("coder range")
}

// LogCoderTarget emits the decode target value when CoderTarget is
// enabled, mirroring coder.c's Debug.coder_target check.
func (c Channels) LogCoderTarget(log zerolog.Logger, target, total uint32) {
	if !c.CoderTarget {
		return
	}
	log.Debug().Uint32("target", target).Uint32("total", total).Msg("coder target")
}
