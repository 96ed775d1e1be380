package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the playback state. Scrubbing is not a durable state: a scrub is
// a single external write that forces Stopped.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Speeds is the discrete set of selectable playback speed multipliers.
var Speeds = []float64{1, 10, 100, 1000}

// Controller advances the shared cursor under a speed-scaled clock driven by
// an external frame signal. Elapsed wall-clock time is measured rather than
// assumed, so frame-rate variance does not change real-time playback speed.
//
// Cancellation is synchronous: Pause, Scrub and Reset clear the elapsed-time
// baseline under the same mutex that Tick advances under, so a tick captured
// before the transition can never move the cursor after it. Cursor
// subscribers are notified only after that mutex is released, with the value
// current at delivery.
type Controller struct {
	cursor      *Cursor
	intervalSec float64
	logger      *slog.Logger

	mu       sync.Mutex
	state    State
	speed    float64
	loaded   bool
	lastTick time.Time
	hasLast  bool
}

// NewController creates a controller at Stopped, cursor 0, speed 1×.
func NewController(cursor *Cursor, intervalSec float64, logger *slog.Logger) *Controller {
	if intervalSec <= 0 {
		intervalSec = 60
	}
	return &Controller{
		cursor:      cursor,
		intervalSec: intervalSec,
		logger:      logger,
		speed:       1,
	}
}

// Cursor returns the controller's cursor.
func (c *Controller) Cursor() *Cursor {
	return c.cursor
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Speed returns the current speed multiplier.
func (c *Controller) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Reset installs a new timeline. maxIndex < 0 marks the controller unloaded
// (playback disabled). The cursor returns to 0 and the state to Stopped.
func (c *Controller) Reset(maxIndex float64) {
	c.mu.Lock()
	c.loaded = maxIndex >= 0
	c.state = Stopped
	c.hasLast = false
	c.mu.Unlock()

	if maxIndex < 0 {
		maxIndex = 0
	}
	c.cursor.SetMax(maxIndex)
	c.cursor.Set(0)
}

// Play transitions Stopped→Playing. No-op when no trajectory set is loaded
// or when already playing. The first tick after Play records the elapsed-time
// baseline and does not move the cursor.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || c.state == Playing {
		return
	}
	c.state = Playing
	c.hasLast = false
}

// Pause transitions Playing→Stopped and cancels any in-flight advance.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Stopped
	c.hasLast = false
}

// Scrub clamps the target index into range, forces Stopped, and sets the
// cursor directly. It preempts any in-flight advance: no stale tick can land
// after a scrub.
func (c *Controller) Scrub(index float64) float64 {
	c.mu.Lock()
	c.state = Stopped
	c.hasLast = false
	c.mu.Unlock()

	return c.cursor.Set(index)
}

// SetSpeed selects a new speed multiplier from the allowed set. The change
// takes effect on the next tick: the cursor position is continuous across
// the change and no elapsed interval is missed or double-counted. Returns
// false for a multiplier outside the allowed set.
func (c *Controller) SetSpeed(speed float64) bool {
	allowed := false
	for _, s := range Speeds {
		if s == speed {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
	return true
}

// Tick advances the cursor by the wall-clock time elapsed since the previous
// tick, scaled by the speed multiplier. Only effective while Playing.
// Reaching the end of the timeline clamps to maxIndex and auto-pauses.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return
	}
	if !c.hasLast {
		c.lastTick = now
		c.hasLast = true
		c.mu.Unlock()
		return
	}
	moved, ended, max := c.advanceLocked(now)
	c.mu.Unlock()

	// The new value is already stored; notify with no locks held so
	// subscribers may call back into the controller.
	if moved {
		c.cursor.notify()
	}
	if ended && c.logger != nil {
		c.logger.Debug("playback reached end of timeline", "max_index", max)
	}
}

// advanceLocked applies the advance rule and stores the new cursor value
// without notifying subscribers. Callers hold c.mu and have verified the
// elapsed-time baseline is set.
func (c *Controller) advanceLocked(now time.Time) (moved, ended bool, max float64) {
	elapsed := now.Sub(c.lastTick).Seconds()
	c.lastTick = now
	if elapsed <= 0 {
		return false, false, 0
	}

	next := c.cursor.Get() + elapsed*c.speed/c.intervalSec
	max = c.cursor.Max()
	if next >= max {
		c.state = Stopped
		c.hasLast = false
		c.cursor.store(max)
		return true, true, max
	}
	c.cursor.store(next)
	return true, false, max
}

// Loop feeds Tick from an external frame signal until the context is
// cancelled or the channel closes.
func (c *Controller) Loop(ctx context.Context, frames <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-frames:
			if !ok {
				return
			}
			c.Tick(now)
		}
	}
}
