package whisper

import (
	"strings"
	"time"
)

// Timing is one recognized span of text with millisecond-resolution bounds.
// Invariant: T0Ms <= T1Ms, both non-negative.
type Timing struct {
	T0Ms int64
	T1Ms int64
	Text string
}

// ticksToMillis converts whisper.cpp's centisecond timestamp ticks to
// milliseconds (10ms per tick).
func ticksToMillis(ticks int64) int64 {
	return 10 * ticks
}

// millisFromDuration adapts the Go bindings' time.Duration timestamps (which
// already bake in the centisecond-tick-to-duration conversion) to the same
// millisecond unit ticksToMillis produces, so callers can treat either
// source uniformly.
func millisFromDuration(d time.Duration) int64 {
	return d.Milliseconds()
}

// isInternalToken reports whether a token's text is one of whisper.cpp's
// internal/meta tokens rather than recognized speech: either the diarization/
// control-token bracket form "[_...]" or a special tag delimited by "<|...|>".
func isInternalToken(text string) bool {
	if strings.HasPrefix(text, "[_") {
		return true
	}
	return strings.HasPrefix(text, "<|") && strings.HasSuffix(text, "|>")
}
