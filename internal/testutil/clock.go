package testutil

import "sync"

// DeterministicClock is a thread-safe transaction clock for tests.
//
// It returns start+step, start+2*step, ... so that scenario transaction
// times are predictable. It satisfies store.Clock.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	step  int64
	seq   int64
}

// NewDeterministicClock creates a clock returning 1, 2, 3, ...
func NewDeterministicClock() *DeterministicClock {
	return NewSteppedClock(0, 1)
}

// NewSteppedClock creates a clock whose first Next returns start+step.
// A step below 1 is treated as 1.
func NewSteppedClock(start, step int64) *DeterministicClock {
	if step < 1 {
		step = 1
	}
	return &DeterministicClock{start: start, step: step, seq: start}
}

// Next advances the clock by one step and returns the new value.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq += c.step
	return c.seq
}

// Current returns the last value without advancing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Advance moves the clock to at least ts, so the next value is greater than
// ts. It never moves the clock backwards.
func (c *DeterministicClock) Advance(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.seq {
		c.seq = ts
	}
}

// Reset returns the clock to its start.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
