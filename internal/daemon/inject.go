package daemon

import (
	"strings"

	"github.com/rbright/talkd/internal/fsm"
)

// recognizeInjectedCommand matches a transcribed utterance against the
// minimal control-phrase grammar. It never drives state directly — a match
// only produces a Command for the caller to enqueue.
func recognizeInjectedCommand(text string) (Command, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, ".!? ")

	switch normalized {
	case "reset yourself":
		return Command{Kind: fsm.CommandReset}, true
	case "set mode to standard":
		return Command{Kind: fsm.CommandMode, Mode: fsm.ModeStandard}, true
	case "set mode to live typing":
		return Command{Kind: fsm.CommandMode, Mode: fsm.ModeLiveTyping}, true
	default:
		return Command{}, false
	}
}
