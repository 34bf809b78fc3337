package config

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLegacy parses the pre-JSONC flat key=value config format, one
// "key = value" pair per line; "#"-prefixed and blank lines are ignored.
func parseLegacy(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for lineNo, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo+1, rawLine)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "model_dir":
			cfg.ModelDir = value
		case "strategy":
			cfg.Strategy = value
		case "socket_path":
			cfg.SocketPath = value
		case "serve":
			cfg.Serve = value
		case "sample_rate_hint":
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return Config{}, nil, fmt.Errorf("line %d: sample_rate_hint must be a non-negative integer: %w", lineNo+1, err)
			}
			cfg.SampleRateHint = uint32(n)
		case "audio.input":
			cfg.Audio.Input = value
		case "audio.fallback":
			cfg.Audio.Fallback = value
		case "debug.enable_audio_dump":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, nil, fmt.Errorf("line %d: debug.enable_audio_dump must be a boolean: %w", lineNo+1, err)
			}
			cfg.Debug.EnableAudioDump = b
		default:
			warnings = append(warnings, Warning{Line: lineNo + 1, Message: fmt.Sprintf("unknown key %q ignored", key)})
		}
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)

	return cfg, warnings, nil
}
