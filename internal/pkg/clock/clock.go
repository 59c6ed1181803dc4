// Package clock supplies the current instant. Stay dates are UTC calendar
// days, so everything here works in UTC.
package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewRealClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns 00:00 UTC of the clock's current date.
func Today(c Clock) time.Time {
	y, m, d := c.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MockClock stands still until advanced. Safe for the concurrent checkout tests.
type MockClock struct {
	nanos atomic.Int64
}

func NewMockClock(t time.Time) *MockClock {
	c := &MockClock{}
	c.nanos.Store(t.UnixNano())
	return c
}

func (c *MockClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

func (c *MockClock) Add(d time.Duration) {
	c.nanos.Add(int64(d))
}
