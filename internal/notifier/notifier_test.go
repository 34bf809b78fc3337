package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitUntilBlocksUntilNotified(t *testing.T) {
	n := New[string]()

	done := make(chan struct{})
	go func() {
		n.WaitUntil("ready")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitUntil returned before Notify")
	case <-time.After(20 * time.Millisecond):
	}

	n.Notify("ready")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitUntil did not return after Notify")
	}
}

func TestWaitUntilIgnoresIntermediateValues(t *testing.T) {
	n := New[int]()

	done := make(chan struct{})
	go func() {
		n.WaitUntil(2)
		close(done)
	}()

	n.Notify(1)
	select {
	case <-done:
		t.Fatal("WaitUntil returned for the wrong value")
	case <-time.After(20 * time.Millisecond):
	}

	n.Notify(2)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitUntil did not return for the target value")
	}
}

func TestCurrentReflectsLastNotify(t *testing.T) {
	n := New[int]()
	require.Equal(t, 0, n.Current())
	n.Notify(42)
	require.Equal(t, 42, n.Current())
}
