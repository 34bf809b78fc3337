package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteHelp(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"--help"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdout.String(), "Usage:")
	require.Empty(t, stderr.String())
}

func TestExecuteVersion(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdout.String(), "talkd")
	require.Empty(t, stderr.String())
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"definitely-not-a-command"}, &stdout, &stderr)
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "unknown command")
	require.Contains(t, stderr.String(), "Usage:")
}

func TestRunnerListChannelsFailsWithoutPulseServer(t *testing.T) {
	paths := setupRunnerEnv(t)
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{"--config", paths.configPath, "list-channels"})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "error:")
}

func TestRunnerRunDaemonRequiresModelDir(t *testing.T) {
	paths := setupRunnerEnv(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{"--config", paths.configPath, "run-daemon", "--socket-path", "/tmp/talkd.sock"})
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "--model-dir is required")
}

func TestRunnerRunDaemonRequiresTransportChoice(t *testing.T) {
	paths := setupRunnerEnv(t)
	modelDir := t.TempDir()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{"--config", paths.configPath, "run-daemon", "--model-dir", modelDir})
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "one of --socket-path or --serve is required")
}

func TestRunnerRunDaemonRejectsBothSocketAndServe(t *testing.T) {
	paths := setupRunnerEnv(t)
	modelDir := t.TempDir()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{
		"--config", paths.configPath, "run-daemon",
		"--model-dir", modelDir,
		"--socket-path", "/tmp/talkd.sock",
		"--serve", "127.0.0.1:8080",
	})
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "mutually exclusive")
}

func TestRunnerRunDaemonFailsPreflightWithEmptyModelDir(t *testing.T) {
	paths := setupRunnerEnv(t)
	modelDir := t.TempDir() // exists but contains no ggml model files

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{
		"--config", paths.configPath, "run-daemon",
		"--model-dir", modelDir,
		"--socket-path", filepath.Join(paths.runtimeDir, "talkd.sock"),
	})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stdout.String(), "model_dir")
	require.Contains(t, stdout.String(), "no ggml model files found")
}

func TestRunnerRunDaemonRejectsBadStrategy(t *testing.T) {
	paths := setupRunnerEnv(t)
	modelDir := t.TempDir()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	runner := Runner{Stdout: &stdout, Stderr: &stderr}

	exitCode := runner.Execute(context.Background(), []string{
		"--config", paths.configPath, "run-daemon",
		"--model-dir", modelDir,
		"--strategy", "bogus-strategy",
		"--socket-path", filepath.Join(paths.runtimeDir, "talkd.sock"),
	})
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "unsupported kind")
}

type runnerPaths struct {
	configPath string
	runtimeDir string
}

func setupRunnerEnv(t *testing.T) runnerPaths {
	t.Helper()

	xdgStateHome := t.TempDir()
	runtimeDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", xdgStateHome)
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	configPath := filepath.Join(t.TempDir(), "config.conf")
	require.NoError(t, os.WriteFile(configPath, []byte("\n"), 0o600))

	return runnerPaths{configPath: configPath, runtimeDir: runtimeDir}
}
