package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyStartFromIdleAccepts(t *testing.T) {
	current := State[string]{Audio: Idle}
	next, accepted := Apply(current, Command[string]{Kind: CommandStart, Session: "s1"})
	require.True(t, accepted)
	require.Equal(t, Started, next.Audio)
	require.Equal(t, "s1", next.Session)
}

func TestApplyStartFromStoppedAccepts(t *testing.T) {
	current := State[string]{Audio: Stopped, Session: "old"}
	next, accepted := Apply(current, Command[string]{Kind: CommandStart, Session: "new"})
	require.True(t, accepted)
	require.Equal(t, Started, next.Audio)
	require.Equal(t, "new", next.Session)
}

func TestApplyStartWhileStartedRejected(t *testing.T) {
	current := State[string]{Audio: Started, Session: "running"}
	next, accepted := Apply(current, Command[string]{Kind: CommandStart, Session: "other"})
	require.False(t, accepted)
	require.Equal(t, current, next)
}

func TestApplyStopFromStartedAccepts(t *testing.T) {
	current := State[string]{Audio: Started, Session: "s1"}
	next, accepted := Apply(current, Command[string]{Kind: CommandStop})
	require.True(t, accepted)
	require.Equal(t, Stopped, next.Audio)
	require.Equal(t, "s1", next.Session)
}

func TestApplyStopFromIdleOrStoppedRejected(t *testing.T) {
	for _, phase := range []AudioPhase{Idle, Stopped} {
		current := State[string]{Audio: phase}
		next, accepted := Apply(current, Command[string]{Kind: CommandStop})
		require.False(t, accepted)
		require.Equal(t, current, next)
	}
}

func TestApplyModeChangeWhileNotRunningAccepts(t *testing.T) {
	current := State[string]{Audio: Idle, Mode: ModeStandard}
	next, accepted := Apply(current, Command[string]{Kind: CommandMode, Mode: ModeLiveTyping})
	require.True(t, accepted)
	require.Equal(t, ModeLiveTyping, next.Mode)
}

func TestApplyModeChangeWhileRunningRejected(t *testing.T) {
	current := State[string]{Audio: Started, Mode: ModeStandard}
	next, accepted := Apply(current, Command[string]{Kind: CommandMode, Mode: ModeLiveTyping})
	require.False(t, accepted)
	require.Equal(t, current, next)
}

func TestApplySameModeRejected(t *testing.T) {
	current := State[string]{Audio: Idle, Mode: ModeStandard}
	next, accepted := Apply(current, Command[string]{Kind: CommandMode, Mode: ModeStandard})
	require.False(t, accepted)
	require.Equal(t, current, next)
}

func TestApplyResetAlwaysAcceptsUnchanged(t *testing.T) {
	for _, phase := range []AudioPhase{Idle, Started, Stopped} {
		current := State[string]{Audio: phase, Session: "s", Mode: ModeLiveTyping}
		next, accepted := Apply(current, Command[string]{Kind: CommandReset})
		require.True(t, accepted)
		require.Equal(t, current, next)
	}
}

func TestApplyRespondAlwaysAcceptsUnchangedRegardlessOfRunningState(t *testing.T) {
	for _, phase := range []AudioPhase{Idle, Started, Stopped} {
		current := State[string]{Audio: phase, Session: "s", Mode: ModeStandard}
		next, accepted := Apply(current, Command[string]{Kind: CommandRespond})
		require.True(t, accepted)
		require.Equal(t, current, next)
	}
}

func TestRunningReflectsStartedPhaseOnly(t *testing.T) {
	require.False(t, State[string]{Audio: Idle}.Running())
	require.True(t, State[string]{Audio: Started}.Running())
	require.False(t, State[string]{Audio: Stopped}.Running())
}
