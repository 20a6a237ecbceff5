package common

import "time"

// Delay counts down from a timeout as elapsed time is fed to it. Time keeps
// accumulating after it ends, so callers can tell how late they noticed.
type Delay struct {
	timeout time.Duration
	left    time.Duration
}

func NewDelay(timeout time.Duration) Delay {
	return Delay{timeout: timeout, left: timeout}
}

func (d *Delay) Update(dt time.Duration) {
	d.left -= dt
}

func (d Delay) Ended() bool {
	return d.left <= 0
}

// SinceEnded is how far past zero the countdown went, or 0 while running.
func (d Delay) SinceEnded() time.Duration {
	if d.left >= 0 {
		return 0
	}
	return -d.left
}

// Remaining may be negative once the delay has ended.
func (d Delay) Remaining() time.Duration {
	return d.left
}

func (d Delay) Timeout() time.Duration {
	return d.timeout
}
