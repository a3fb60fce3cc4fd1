// Package clock abstracts the wall clock so session timestamps and idle
// tracking can be driven by a fixed clock in tests.
package clock

import "time"

// Clock is the time source injected into sessions and the registry
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
