package config

import (
	"fmt"
	"strings"

	"github.com/rbright/talkd/internal/whisper"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Strategy) != "" {
		if _, err := whisper.ParseStrategy(cfg.Strategy); err != nil {
			return nil, fmt.Errorf("strategy: %w", err)
		}
	}

	if strings.TrimSpace(cfg.SocketPath) != "" && strings.TrimSpace(cfg.Serve) != "" {
		return nil, fmt.Errorf("exactly one of socket_path or serve must be set, not both")
	}

	if strings.TrimSpace(cfg.Audio.Input) == "" {
		return nil, fmt.Errorf("audio.input must not be empty")
	}
	if strings.TrimSpace(cfg.Audio.Fallback) == "" {
		return nil, fmt.Errorf("audio.fallback must not be empty")
	}

	return warnings, nil
}
