package registry

import (
	"sync"
	"time"
)

// Clock supplies logical time to a store.
//
// Every timestamp the registry records and every expiry comparison it makes
// reads the clock exactly once per operation, so a single operation observes
// a single instant. Implementations must be monotonically non-decreasing.
type Clock interface {
	Now() LogicalTime
}

// SystemClock maps logical time onto Unix seconds. It is the default clock
// for production stores.
type SystemClock struct{}

// Now returns the current Unix time as a logical tick.
func (SystemClock) Now() LogicalTime {
	return LogicalTime(time.Now().Unix())
}

// ManualClock is a test clock advanced explicitly by the caller.
type ManualClock struct {
	mu  sync.Mutex
	now LogicalTime
}

// NewManualClock creates a manual clock starting at the given tick.
func NewManualClock(start LogicalTime) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current tick.
func (c *ManualClock) Now() LogicalTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by delta ticks.
func (c *ManualClock) Advance(delta LogicalTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += delta
}

// Set moves the clock to the given tick. Moving backwards is not supported
// and panics, matching the monotonicity contract.
func (c *ManualClock) Set(now LogicalTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now < c.now {
		panic("registry: manual clock moved backwards")
	}
	c.now = now
}
