package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestControllerInitialStateIsStopped(t *testing.T) {
	c := NewController()
	require.Equal(t, Stopped, c.State())
}

func TestControllerStartUnblocksWaitForStarted(t *testing.T) {
	c := NewController()

	done := make(chan struct{})
	go func() {
		c.WaitFor(Started)
		close(done)
	}()

	c.Start()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitFor(Started) did not unblock after Start")
	}
}

func TestControllerFullLifecycle(t *testing.T) {
	c := NewController()

	c.Start()
	require.Equal(t, Started, c.State())

	c.SetRecording()
	require.Equal(t, Recording, c.State())

	c.Stop()
	require.Equal(t, Stopped, c.State())
}
