package clock

import (
	"sync/atomic"
	"time"
)

// SystemClock is struct clock-component reading wall-clock time in whole Unix
// seconds. Successive calls never go backward: if the wall clock steps back,
// the last returned value is held until real time catches up again.
type SystemClock struct {
	last atomic.Int64
}

// NewSystemClock is construct for clock-component.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time as whole Unix seconds, monotonically
// non-decreasing.
func (t *SystemClock) Now() int64 {
	now := time.Now().Unix()
	for {
		last := t.last.Load()
		if now <= last {
			return last
		}
		if t.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
