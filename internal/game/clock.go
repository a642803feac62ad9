package game

import (
	"time"

	"github.com/samdwyer/snackfriend/internal/feeding"
)

// loopClock hands timer callbacks to the event loop through fires, so they
// run on the loop goroutine and never interleave with click handling.
// A fire blocks until the loop takes it or the game closes; none are dropped.
type loopClock struct {
	fires chan<- func()
	done  <-chan struct{}
}

func (c *loopClock) Now() time.Time {
	return time.Now()
}

func (c *loopClock) AfterFunc(d time.Duration, f func()) feeding.Timer {
	return time.AfterFunc(d, func() {
		select {
		case c.fires <- f:
		case <-c.done:
		}
	})
}
