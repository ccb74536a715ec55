package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock assigns transaction times. Next must return strictly increasing
// positive values.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic counter starting after a given value.
//
// Thread-safety: LogicalClock is safe for concurrent use (atomic operations).
type LogicalClock struct {
	seq atomic.Int64
}

// NewLogicalClock creates a clock whose first Next returns start+1.
func NewLogicalClock(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next value.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// WallClock returns Unix milliseconds, bumped by one when the wall clock has
// not advanced since the previous call.
type WallClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewWallClock creates a clock reading time.Now.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Next returns max(now, previous+1) in Unix milliseconds.
func (c *WallClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}
