package audio

import "errors"

// ErrNoSupportedConfigs is returned when no device/config pair satisfies a session's constraints.
var ErrNoSupportedConfigs = errors.New("no supported configs found")

// ErrInvalidChannelCount is returned when a device reports a channel count other than 1 or 2.
var ErrInvalidChannelCount = errors.New("unsupported channel count")

// ErrInvalidSampleFormat names a device that does not offer the expected
// sample format. Nothing in this package returns it: the capture stream is
// always opened as float32 little-endian.
var ErrInvalidSampleFormat = errors.New("invalid sample format")

// ErrThreadPanic wraps a recovered panic from the capture or sink goroutine.
type ErrThreadPanic struct {
	Message string
}

func (e *ErrThreadPanic) Error() string { return "thread panic: " + e.Message }
