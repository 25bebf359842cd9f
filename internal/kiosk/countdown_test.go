package kiosk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFiresDoneExactlyOnce(t *testing.T) {
	c := newCountdown(3, time.Millisecond)

	var ticks []int
	for remaining := range c.Ticks() {
		ticks = append(ticks, remaining)
	}
	assert.Equal(t, []int{2, 1, 0}, ticks)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown never completed")
	}

	// Done is a closed channel; a second receive must not block and there
	// is no second completion event to observe.
	select {
	case <-c.Done():
	default:
		t.Fatal("done channel should stay closed")
	}
}

func TestCountdownCancelPreventsDone(t *testing.T) {
	c := newCountdown(1000, time.Millisecond)
	c.Cancel()

	for range c.Ticks() {
	}

	select {
	case <-c.Done():
		t.Fatal("cancelled countdown must not complete")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCountdownCancelIsIdempotent(t *testing.T) {
	c := newCountdown(5, time.Millisecond)
	c.Cancel()
	c.Cancel()

	select {
	case <-c.Done():
		t.Fatal("cancelled countdown must not complete")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCountdownCancelAfterCompletion(t *testing.T) {
	c := newCountdown(1, time.Millisecond)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown never completed")
	}
	c.Cancel()

	require.NotPanics(t, func() { c.Cancel() })
}
