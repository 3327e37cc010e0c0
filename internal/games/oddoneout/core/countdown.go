package core

import "time"

// Countdown reports whole seconds remaining in a round.
// The start time is captured on the first Tick, and expiry is reported once.
type Countdown struct {
	duration time.Duration
	t0       time.Duration
	started  bool
	expired  bool
}

// NewCountdown creates a countdown of the given length.
func NewCountdown(d time.Duration) *Countdown {
	return &Countdown{duration: d}
}

// Reset rearms the countdown; the next Tick becomes the new start.
func (c *Countdown) Reset() {
	c.started = false
	c.expired = false
}

// Duration returns the configured round length.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}

// Expired reports whether expiry has already fired.
func (c *Countdown) Expired() bool {
	return c.expired
}

// Elapsed returns time since the first tick, given the current time.
func (c *Countdown) Elapsed(now time.Duration) time.Duration {
	if !c.started {
		return 0
	}
	return now - c.t0
}

// Tick returns ceil(duration - elapsed) in seconds, floored at 0.
// fired is true only on the tick where the countdown reaches zero.
// After that Tick keeps returning 0 and never fires again.
func (c *Countdown) Tick(now time.Duration) (remaining int, fired bool) {
	if c.expired {
		return 0, false
	}
	if !c.started {
		c.t0 = now
		c.started = true
	}

	remaining = ceilSeconds(c.duration - (now - c.t0))
	if remaining <= 0 {
		c.expired = true
		return 0, true
	}
	return remaining, false
}

// ceilSeconds rounds d up to whole seconds.
// Integer division truncates toward zero, which is already ceil for negatives.
func ceilSeconds(d time.Duration) int {
	secs := d / time.Second
	if d%time.Second > 0 {
		secs++
	}
	return int(secs)
}
