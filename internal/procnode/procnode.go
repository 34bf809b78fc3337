// Package procnode provides a generic worker that pulls items from an
// unbounded channel until the sender closes it, then reduces the drained
// sequence to a single result.
package procnode

// Reduce consumes every item sent on in, in order, and produces one result.
// It must not return until in is closed.
type Reduce[T, R any] func(in <-chan T) R

// Node spawns a worker goroutine that runs a Reduce over a channel.
type Node[T, R any] struct {
	reduce Reduce[T, R]
}

// New builds a Node around the given reduction.
func New[T, R any](reduce Reduce[T, R]) *Node[T, R] {
	return &Node[T, R]{reduce: reduce}
}

// Run starts the worker goroutine and returns the producer-facing send
// channel and a result channel that receives exactly one value once the
// send channel is closed and the reduction completes. The send channel is
// backed by an unbounded internal queue (see unbounded) so a realtime
// producer — the DSP callback feeding a recording's sink — never blocks on
// a slow consumer, regardless of how far the two sides drift apart.
func (n *Node[T, R]) Run() (chan<- T, <-chan R) {
	sink, drain := unbounded[T]()
	out := make(chan R, 1)

	go func() {
		out <- n.reduce(drain)
		close(out)
	}()

	return sink, out
}

// unbounded returns a send channel and a receive channel joined by a pump
// goroutine holding a growable queue between them: sends on the returned
// send channel never block on the receive side draining slowly, only on
// the pump goroutine itself being scheduled, which does no blocking work
// of its own. Closing the send channel drains the remaining queue to the
// receive channel, then closes it.
func unbounded[T any]() (chan<- T, <-chan T) {
	in := make(chan T)
	out := make(chan T)

	go func() {
		defer close(out)

		var queue []T
		for {
			if len(queue) == 0 {
				v, ok := <-in
				if !ok {
					return
				}
				queue = append(queue, v)
				continue
			}

			select {
			case v, ok := <-in:
				if !ok {
					for _, q := range queue {
						out <- q
					}
					return
				}
				queue = append(queue, v)

			case out <- queue[0]:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
