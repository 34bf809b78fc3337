package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath applies CLI/XDG/home fallback rules for config.conf location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "talkd", "config.conf"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}

	return filepath.Join(home, ".config", "talkd", "config.conf"), nil
}

// legacyPathFor returns the pre-JSONC flat config path this project used to
// read before the config.conf/JSONC split, so existing installs keep working
// without a migration step. It sits alongside resolvedPath's directory.
func legacyPathFor(resolvedPath string) string {
	dir := filepath.Dir(resolvedPath)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "talkd.conf")
}
