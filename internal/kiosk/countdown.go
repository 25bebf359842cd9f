package kiosk

import (
	"sync"
	"time"
)

// Countdown is a cancellable one-second ticker owned by a result screen.
// Done is closed exactly once when the count reaches zero; it never closes
// after Cancel, so a screen dismissed early cannot trigger a second
// return-to-idle.
type Countdown struct {
	ticks      chan int
	done       chan struct{}
	cancel     chan struct{}
	cancelOnce sync.Once
}

// NewCountdown arms a countdown from the given number of seconds. The
// remaining count after each elapsed second is delivered on Ticks.
func NewCountdown(seconds int) *Countdown {
	return newCountdown(seconds, time.Second)
}

func newCountdown(seconds int, interval time.Duration) *Countdown {
	c := &Countdown{
		ticks:  make(chan int, seconds),
		done:   make(chan struct{}),
		cancel: make(chan struct{}),
	}
	go c.run(seconds, interval)
	return c
}

func (c *Countdown) run(remaining int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(c.ticks)

	for remaining > 0 {
		select {
		case <-ticker.C:
			remaining--
			select {
			case c.ticks <- remaining:
			default:
			}
		case <-c.cancel:
			return
		}
	}

	// Cancel may have raced the final tick; a cancelled countdown must
	// never report completion.
	select {
	case <-c.cancel:
	default:
		close(c.done)
	}
}

// Ticks delivers the remaining seconds after each tick. The channel closes
// when the countdown finishes or is cancelled.
func (c *Countdown) Ticks() <-chan int {
	return c.ticks
}

// Done is closed when the countdown reaches zero. It is never closed more
// than once and never after Cancel.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Cancel stops the countdown. Safe to call multiple times and after
// completion.
func (c *Countdown) Cancel() {
	c.cancelOnce.Do(func() { close(c.cancel) })
}
