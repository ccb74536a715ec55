package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/bitemp/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a clock stepping
// by 10 from 0.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithClock(testutil.NewSteppedClock(0, 10))}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stuckClock always returns the same value.
type stuckClock int64

func (c stuckClock) Next() int64 { return int64(c) }

// scriptedClock returns its timestamps in order.
type scriptedClock struct {
	ts []int64
	i  int
}

func (c *scriptedClock) Next() int64 {
	ts := c.ts[c.i]
	c.i++
	return ts
}
