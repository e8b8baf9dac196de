package camera

import "time"

// Clock measures the time between frames.
type Clock struct {
	now  func() time.Time
	last time.Time
}

// NewClock returns a clock reading wall time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Tick returns the seconds elapsed since the previous Tick. The first Tick
// returns zero.
func (c *Clock) Tick() float32 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	elapsed := t.Sub(c.last).Seconds()
	c.last = t
	return float32(elapsed)
}
