package main

import "time"

// defaultAutoHideWindow is the inactivity window before chrome hides
const defaultAutoHideWindow = 3000 * time.Millisecond

// Clock abstracts the time source so the viewer can be driven deterministically
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AutoHideController is a single debounced deadline. It never fires on its own;
// the owner polls Expired from its update loop, so expiry is delivered on the
// same thread as every other transition.
type AutoHideController struct {
	window   time.Duration
	deadline time.Time
	armed    bool
}

// NewAutoHideController creates a disarmed controller
func NewAutoHideController(window time.Duration) *AutoHideController {
	if window <= 0 {
		window = defaultAutoHideWindow
	}
	return &AutoHideController{window: window}
}

// Arm (re)starts the window from now, replacing any pending deadline
func (c *AutoHideController) Arm(now time.Time) {
	c.deadline = now.Add(c.window)
	c.armed = true
}

// Disarm drops the pending deadline
func (c *AutoHideController) Disarm() {
	c.armed = false
}

// Armed reports whether a deadline is pending
func (c *AutoHideController) Armed() bool {
	return c.armed
}

// Deadline returns the pending deadline, zero when disarmed
func (c *AutoHideController) Deadline() time.Time {
	if !c.armed {
		return time.Time{}
	}
	return c.deadline
}

// Expired reports true exactly once when the deadline has passed, then disarms
func (c *AutoHideController) Expired(now time.Time) bool {
	if !c.armed || now.Before(c.deadline) {
		return false
	}
	c.armed = false
	return true
}
