// Package outbox implements the per-client FIFO queue a QueueForMatch
// stream drains. Producers append under the box's own lock and signal a
// condition variable; the consumer waits on that signal with a bounded
// timeout so it can also notice match teardown.
package outbox

import (
	"sync"
	"time"

	"roundhold/internal/balance"
	"roundhold/internal/events"
)

// OverflowError is returned by Push when the queue has grown past the
// healthy bound; the caller should treat the match as unhealthy and
// tear it down rather than keep pushing into a client that stopped
// draining its stream.
type OverflowError struct{}

func (OverflowError) Error() string { return "outbox: buffer exceeded healthy bound" }

// Box is a bounded FIFO of MatchEvents plus a "ready" signal channel.
type Box struct {
	mu      sync.Mutex
	events  []events.MatchEvent
	ready   chan struct{} // buffered 1: non-blocking wake-up
	closeCh chan struct{}
	closed  bool
}

func New() *Box {
	return &Box{
		ready:   make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
}

func (b *Box) wake() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Push appends an event and wakes the consumer. Returns OverflowError
// once the queue exceeds balance.OutboxBufferSize; the caller is
// expected to tear down the match in that case, not retry.
func (b *Box) Push(evt events.MatchEvent) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	if len(b.events) >= balance.OutboxBufferSize {
		b.mu.Unlock()
		return OverflowError{}
	}
	b.events = append(b.events, evt)
	b.mu.Unlock()
	b.wake()
	return nil
}

// Drain blocks until at least one event is queued, the box is closed, or
// timeout elapses, then returns and clears every currently queued event
// in order. A nil, false return with no events means the wait timed out
// with nothing to deliver (used for periodic liveness checks); the
// caller should loop.
func (b *Box) Drain(timeout time.Duration) (drained []events.MatchEvent, closed bool) {
	for {
		b.mu.Lock()
		if len(b.events) > 0 || b.closed {
			drained = b.events
			b.events = nil
			closed = b.closed
			b.mu.Unlock()
			return drained, closed
		}
		b.mu.Unlock()

		select {
		case <-b.ready:
			continue
		case <-b.closeCh:
			continue
		case <-time.After(timeout):
			return nil, false
		}
	}
}

// Close marks the box closed and wakes any waiting consumer; further
// Push calls are silently dropped.
func (b *Box) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()
	close(b.closeCh)
}
