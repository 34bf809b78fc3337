package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/talkd.conf", "list-channels"})
	require.NoError(t, err)
	require.Equal(t, CommandListChannels, parsed.Command)
	require.Equal(t, "/tmp/talkd.conf", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
}

func TestParseRunDaemonFlags(t *testing.T) {
	parsed, err := Parse([]string{
		"run-daemon",
		"--model-dir", "/models",
		"--strategy", "beam:5:0",
		"--socket-path", "/tmp/talkd.sock",
	})
	require.NoError(t, err)
	require.Equal(t, CommandRunDaemon, parsed.Command)
	require.Equal(t, "/models", parsed.ModelDir)
	require.Equal(t, "beam:5:0", parsed.Strategy)
	require.Equal(t, "/tmp/talkd.sock", parsed.SocketPath)
	require.Empty(t, parsed.Serve)
}

func TestParseRunDaemonRejectsBothSocketAndServe(t *testing.T) {
	_, err := Parse([]string{
		"run-daemon",
		"--model-dir", "/models",
		"--socket-path", "/tmp/talkd.sock",
		"--serve", "127.0.0.1:8080",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCmd  Command
		wantHelp bool
		wantPath string
	}{
		{
			name:     "help short flag",
			args:     []string{"-h"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help long flag",
			args:     []string{"--help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "version flag",
			args:     []string{"--version"},
			wantCmd:  CommandVersion,
			wantHelp: false,
		},
		{
			name:    "config after command",
			args:    []string{"list-channels", "--config", "/tmp/cfg"},
			wantErr: "unexpected arguments after command",
		},
		{
			name:    "missing config path",
			args:    []string{"--config"},
			wantErr: "requires a path",
		},
		{
			name:    "missing model-dir value",
			args:    []string{"run-daemon", "--model-dir"},
			wantErr: "requires a path",
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: "unknown flag",
		},
		{
			name:    "unknown command",
			args:    []string{"bogus"},
			wantErr: "unknown command",
		},
		{
			name:    "extra args after command",
			args:    []string{"list-channels", "extra"},
			wantErr: "unexpected arguments",
		},
		{
			name:     "valid list-channels command",
			args:     []string{"list-channels"},
			wantCmd:  CommandListChannels,
			wantHelp: false,
		},
		{
			name:     "valid run-daemon with config",
			args:     []string{"--config", "/tmp/cfg", "run-daemon", "--model-dir", "/models"},
			wantCmd:  CommandRunDaemon,
			wantHelp: false,
			wantPath: "/tmp/cfg",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
		})
	}
}

func TestHelpTextIncludesCoreCommands(t *testing.T) {
	text := HelpText("talkd")
	require.Contains(t, text, "list-channels")
	require.Contains(t, text, "run-daemon")
	require.Contains(t, text, "--model-dir DIR")
	require.Contains(t, text, "--config PATH")
}
