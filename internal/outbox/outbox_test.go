package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
	"roundhold/internal/events"
)

func TestPushThenDrainPreservesOrder(t *testing.T) {
	b := New()
	require.NoError(t, b.Push(events.NewTowerPlaced(events.TowerPlaced{})))
	require.NoError(t, b.Push(events.NewOpponentDisconnected()))

	drained, closed := b.Drain(time.Second)
	require.False(t, closed)
	require.Len(t, drained, 2)
	require.Equal(t, events.KindTowerPlaced, drained[0].Kind)
	require.Equal(t, events.KindOpponentDisconnected, drained[1].Kind)
}

func TestDrainTimesOutWithNothingQueued(t *testing.T) {
	b := New()
	drained, closed := b.Drain(10 * time.Millisecond)
	require.Nil(t, drained)
	require.False(t, closed)
}

func TestPushOverflowsPastBound(t *testing.T) {
	b := New()
	for i := 0; i < balance.OutboxBufferSize; i++ {
		require.NoError(t, b.Push(events.NewOpponentDisconnected()))
	}
	err := b.Push(events.NewOpponentDisconnected())
	require.Error(t, err)
	var overflow OverflowError
	require.ErrorAs(t, err, &overflow)
}

func TestCloseWakesBlockedDrain(t *testing.T) {
	b := New()
	done := make(chan struct{})
	go func() {
		_, closed := b.Drain(5 * time.Second)
		if closed {
			close(done)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not wake a blocked Drain")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New()
	b.Close()
	require.NotPanics(t, func() { b.Close() })
}

func TestPushAfterCloseIsSilentlyDropped(t *testing.T) {
	b := New()
	b.Close()
	require.NoError(t, b.Push(events.NewOpponentDisconnected()))
	drained, closed := b.Drain(10 * time.Millisecond)
	require.Empty(t, drained)
	require.True(t, closed)
}
