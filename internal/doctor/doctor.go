// Package doctor runs runtime readiness diagnostics for config, models, and audio.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/config"
	"github.com/rbright/talkd/internal/whisper"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes config/model/audio readiness checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkStrategy(cfg.Config.Strategy))
	checks = append(checks, checkModelDir(cfg.Config.ModelDir))
	checks = append(checks, checkAudioSelection(cfg.Config))

	return Report{Checks: checks}
}

// checkStrategy validates the configured decoding strategy grammar.
func checkStrategy(strategy string) Check {
	parsed, err := whisper.ParseStrategy(strategy)
	if err != nil {
		return Check{Name: "strategy", Pass: false, Message: err.Error()}
	}
	return Check{Name: "strategy", Pass: true, Message: fmt.Sprintf("using %s", parsed.String())}
}

// checkModelDir verifies the model directory exists and contains at least
// one of the known ggml model files.
func checkModelDir(modelDir string) Check {
	if strings.TrimSpace(modelDir) == "" {
		return Check{Name: "model_dir", Pass: false, Message: "model_dir is empty"}
	}

	info, err := os.Stat(modelDir)
	if err != nil {
		return Check{Name: "model_dir", Pass: false, Message: fmt.Sprintf("stat %q: %v", modelDir, err)}
	}
	if !info.IsDir() {
		return Check{Name: "model_dir", Pass: false, Message: fmt.Sprintf("%q is not a directory", modelDir)}
	}

	var found []string
	for _, model := range []whisper.Model{whisper.ModelBase, whisper.ModelSmall, whisper.ModelMedium, whisper.ModelLarge} {
		if _, err := os.Stat(filepath.Join(modelDir, model.Filename())); err == nil {
			found = append(found, model.String())
		}
	}

	if len(found) == 0 {
		return Check{Name: "model_dir", Pass: false, Message: fmt.Sprintf("no ggml model files found under %q", modelDir)}
	}
	return Check{Name: "model_dir", Pass: true, Message: fmt.Sprintf("found models: %s", strings.Join(found, ", "))}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}
