package alerts

import "time"

// Cooldown withholds alerts until window has elapsed since the last admitted one.
// It is owned by a single goroutine.
type Cooldown struct {
	window   time.Duration
	last     time.Time
	admitted bool
}

// NewCooldown returns a controller that has never admitted an alert.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window}
}

// Admit records now as the last alert time and returns true when the window has
// elapsed or nothing was ever admitted. Otherwise it returns false and leaves state unchanged.
func (c *Cooldown) Admit(now time.Time) bool {
	if c.admitted && now.Sub(c.last) < c.window {
		return false
	}
	c.last = now
	c.admitted = true
	return true
}

// Remaining returns how long until the next alert would be admitted.
func (c *Cooldown) Remaining(now time.Time) time.Duration {
	if !c.admitted {
		return 0
	}
	left := c.window - now.Sub(c.last)
	if left < 0 {
		return 0
	}
	return left
}
