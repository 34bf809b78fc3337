// Package cli parses talkd's command-line surface: list-channels and
// run-daemon, plus the ambient --config/--version/--help flags.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandListChannels Command = "list-channels"
	CommandRunDaemon    Command = "run-daemon"
	CommandVersion      Command = "version"
	CommandHelp         Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandListChannels: {},
	CommandRunDaemon:    {},
	CommandVersion:      {},
	CommandHelp:         {},
}

// Parsed is the fully-parsed command line.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	ModelDir   string
	Strategy   string
	SocketPath string
	Serve      string
}

// Parse interprets argv (excluding the binary name itself).
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	commandSeen := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp

		case arg == "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion

		case arg == "--config":
			if commandSeen {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", parsed.Command)
			}
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]

		case arg == "--model-dir":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--model-dir requires a path")
			}
			parsed.ModelDir = args[i]

		case arg == "--strategy":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--strategy requires a value")
			}
			parsed.Strategy = args[i]

		case arg == "--socket-path":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--socket-path requires a path")
			}
			parsed.SocketPath = args[i]

		case arg == "--serve":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--serve requires a host:port")
			}
			parsed.Serve = args[i]

		case strings.HasPrefix(arg, "-"):
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)

		default:
			if commandSeen {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", parsed.Command)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			commandSeen = true
		}
	}

	if parsed.Command == CommandRunDaemon {
		if parsed.SocketPath != "" && parsed.Serve != "" {
			return Parsed{}, errors.New("--socket-path and --serve are mutually exclusive")
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [flags]

Commands:
  list-channels   Enumerate input devices and their supported configs
  run-daemon      Start the transcription daemon
  version         Print version information
  help            Show this help

run-daemon flags:
  --model-dir DIR       Directory containing ggml-*.bin model files (required)
  --strategy S          Sampling strategy, e.g. greedy:2 or beam:5:0
  --socket-path PATH    Listen on a Unix socket
  --serve HOST:PORT     Listen for HTTP requests (mutually exclusive with --socket-path)

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/talkd/config.conf)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
