package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		ModelDir:       "",
		Strategy:       "greedy:2",
		SocketPath:     "",
		Serve:          "",
		SampleRateHint: 0,
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Debug: DebugConfig{},
	}
}
