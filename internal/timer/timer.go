// Package timer implements the quiz countdown: a once-per-second tick that
// fires a single expiry callback when the remaining time reaches zero.
package timer

import (
	"sync"
	"time"
)

type Phase string

const (
	PhaseNormal  Phase = "normal"
	PhaseWarning Phase = "warning"
	PhaseUrgent  Phase = "urgent"
)

const (
	urgentThreshold  = 60 * time.Second
	warningThreshold = 300 * time.Second
)

// PhaseFor maps remaining time onto the display phase. Purely
// presentational; nothing behavioral hangs off it.
func PhaseFor(remaining time.Duration) Phase {
	switch {
	case remaining < urgentThreshold:
		return PhaseUrgent
	case remaining < warningThreshold:
		return PhaseWarning
	default:
		return PhaseNormal
	}
}

// Countdown decrements a remaining-seconds counter once per tick. It has
// exactly one owner; Stop releases the tick goroutine and is safe to call
// more than once. The expiry callback runs at most once, and never after
// Stop has won the race.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	interval  time.Duration
	onExpire  func()
	stop      chan struct{}
	stopOnce  sync.Once
	started   bool
	expired   bool
}

// New builds a countdown for the given limit with the real one-second
// tick. onExpire runs on the tick goroutine when the counter hits zero.
func New(limit time.Duration, onExpire func()) *Countdown {
	return newWithInterval(limit, time.Second, onExpire)
}

// NewWithInterval is New with a custom tick interval. Tests use it to run
// a full countdown in milliseconds.
func NewWithInterval(limit, interval time.Duration, onExpire func()) *Countdown {
	return newWithInterval(limit, interval, onExpire)
}

func newWithInterval(limit, interval time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		remaining: int(limit / time.Second),
		interval:  interval,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// Start launches the tick goroutine. Subsequent calls are no-ops.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()
	go c.run()
}

// Stop cancels the tick source. No callback fires after Stop returns
// unless expiry was already in flight.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Remaining reports the time left on the counter.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.remaining) * time.Second
}

// Phase is the display phase for the current remaining time.
func (c *Countdown) Phase() Phase {
	return PhaseFor(c.Remaining())
}

// Expired reports whether the counter ran out.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.remaining--
			done := c.remaining <= 0
			if done {
				c.expired = true
			}
			c.mu.Unlock()
			if done {
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}
