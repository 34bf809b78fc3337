// Package config resolves, parses, validates, and defaults talkd configuration.
package config

// Config is the fully materialized runtime configuration used by talkd.
type Config struct {
	ModelDir       string
	Strategy       string
	SocketPath     string
	Serve          string
	SampleRateHint uint32
	Audio          AudioConfig
	Debug          DebugConfig
}

// AudioConfig controls preferred and fallback input-device selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
