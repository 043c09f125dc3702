package testutil

import "sync"

// ManualClock is a stream clock that only moves when told to.
//
// It satisfies engine.Clock. Two streams driven by ManualClocks set to the
// same instant produce identical schedules, which golden tests rely on.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu    sync.Mutex
	now   int64
	reads int
}

// NewManualClock creates a clock reading startMs.
func NewManualClock(startMs int64) *ManualClock {
	return &ManualClock{now: startMs}
}

// NowMs returns the current reading and counts the read.
func (c *ManualClock) NowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.now
}

// Advance moves the clock forward by deltaMs.
func (c *ManualClock) Advance(deltaMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += deltaMs
}

// Set moves the clock to ms.
func (c *ManualClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ms
}

// Reads returns how many times NowMs has been called.
func (c *ManualClock) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
