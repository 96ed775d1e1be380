// Package playback owns the shared time cursor and the controller that
// advances it. The cursor is a single continuous value in sample-index units
// shared by the render-window generators and the camera controller; every
// write clamps into [0, maxIndex] so readers never observe an out-of-range
// position.
package playback

import "sync"

// Cursor is the shared playback position in sample-index units.
// Safe for concurrent use. Writes clamp into [0, max]; reads never fail.
type Cursor struct {
	mu   sync.Mutex
	t    float64
	max  float64
	subs []func(float64)
}

// NewCursor creates a cursor at 0 with max index 0.
func NewCursor() *Cursor {
	return &Cursor{}
}

// Get returns the current cursor value.
func (c *Cursor) Get() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Max returns the current maximum index.
func (c *Cursor) Max() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.max
}

// Set clamps v into [0, max], stores it, notifies subscribers, and returns
// the stored value.
func (c *Cursor) Set(v float64) float64 {
	t := c.store(v)
	c.notify()
	return t
}

// store clamps and writes the value without notifying.
func (c *Cursor) store(v float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = clamp(v, 0, c.max)
	return c.t
}

// notify invokes subscribers with the value current at call time. Callbacks
// run outside the cursor lock and may read or write the cursor.
func (c *Cursor) notify() {
	c.mu.Lock()
	t := c.t
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
}

// SetMax updates the maximum index and re-clamps the current value.
func (c *Cursor) SetMax(max float64) {
	c.mu.Lock()
	if max < 0 {
		max = 0
	}
	c.max = max
	c.t = clamp(c.t, 0, c.max)
	c.mu.Unlock()
}

// Subscribe registers a callback invoked on every cursor write. Callbacks
// run with no locks held, so they may call back into the cursor or the
// controller driving it.
func (c *Cursor) Subscribe(fn func(float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
