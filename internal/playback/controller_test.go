package playback

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func newLoadedController(t *testing.T, maxIndex float64) *Controller {
	t.Helper()
	c := NewController(NewCursor(), 60, testLogger)
	c.Reset(maxIndex)
	return c
}

// TestSubscriberCallsBackIntoController verifies a cursor subscriber fired
// from a tick can read and mutate the controller without deadlocking.
func TestSubscriberCallsBackIntoController(t *testing.T) {
	c := newLoadedController(t, 1000)

	var seenStates []State
	c.Cursor().Subscribe(func(v float64) {
		seenStates = append(seenStates, c.State())
		if v >= 3 {
			c.Pause()
		}
	})

	c.Play()
	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(3 * time.Minute))

	if len(seenStates) != 1 || seenStates[0] != Playing {
		t.Errorf("subscriber observed states %v, want [playing]", seenStates)
	}
	if c.State() != Stopped {
		t.Errorf("state = %v after subscriber pause, want Stopped", c.State())
	}
	if got := c.Cursor().Get(); got != 3 {
		t.Errorf("cursor = %v, want 3", got)
	}

	// Paused by the subscriber: further ticks must not advance.
	c.Tick(t0.Add(4 * time.Minute))
	if got := c.Cursor().Get(); got != 3 {
		t.Errorf("cursor = %v after paused tick, want 3", got)
	}
}

// TestCursorSetClamps verifies writes clamp into [0, max] and return the
// stored value.
func TestCursorSetClamps(t *testing.T) {
	cur := NewCursor()
	cur.SetMax(100)

	if got := cur.Set(-5); got != 0 {
		t.Errorf("Set(-5) = %v, want 0", got)
	}
	if got := cur.Set(250); got != 100 {
		t.Errorf("Set(250) = %v, want 100", got)
	}
	if got := cur.Set(42.5); got != 42.5 {
		t.Errorf("Set(42.5) = %v, want 42.5", got)
	}
}

// TestCursorSetMaxReclamps verifies shrinking the timeline pulls the cursor
// back into range.
func TestCursorSetMaxReclamps(t *testing.T) {
	cur := NewCursor()
	cur.SetMax(100)
	cur.Set(80)
	cur.SetMax(50)
	if got := cur.Get(); got != 50 {
		t.Errorf("cursor = %v after SetMax(50), want 50", got)
	}
}

// TestCursorSubscribe verifies subscribers see the clamped value.
func TestCursorSubscribe(t *testing.T) {
	cur := NewCursor()
	cur.SetMax(10)

	var seen []float64
	cur.Subscribe(func(v float64) { seen = append(seen, v) })

	cur.Set(3)
	cur.Set(99)
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 10 {
		t.Errorf("subscriber saw %v, want [3 10]", seen)
	}
}

// TestPlayRequiresLoadedSet verifies Play is a no-op before any trajectory
// set is installed.
func TestPlayRequiresLoadedSet(t *testing.T) {
	c := NewController(NewCursor(), 60, testLogger)
	c.Play()
	if c.State() != Stopped {
		t.Errorf("state = %v after Play on unloaded controller, want Stopped", c.State())
	}
}

// TestFirstTickRecordsBaseline verifies the first tick after Play does not
// move the cursor.
func TestFirstTickRecordsBaseline(t *testing.T) {
	c := newLoadedController(t, 1000)
	c.Play()

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	if got := c.Cursor().Get(); got != 0 {
		t.Errorf("cursor = %v after first tick, want 0", got)
	}
}

// TestTickAdvancesByElapsedTime verifies the advance rule: elapsed seconds
// times speed divided by the sample interval.
func TestTickAdvancesByElapsedTime(t *testing.T) {
	c := newLoadedController(t, 1000)
	c.Play()

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(3 * time.Second)) // 3s at 1× over 60s samples = 0.05

	if got := c.Cursor().Get(); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("cursor = %v, want 0.05", got)
	}

	if !c.SetSpeed(100) {
		t.Fatal("SetSpeed(100) rejected")
	}
	c.Tick(t0.Add(6 * time.Second)) // +3s at 100× = +5.0

	if got := c.Cursor().Get(); math.Abs(got-5.05) > 1e-9 {
		t.Errorf("cursor = %v, want 5.05", got)
	}
}

// TestTickNeverDecreases verifies a backward wall clock never moves the
// cursor backward.
func TestTickNeverDecreases(t *testing.T) {
	c := newLoadedController(t, 1000)
	c.Play()

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(3 * time.Second))
	before := c.Cursor().Get()

	c.Tick(t0.Add(time.Second)) // clock went backward
	if got := c.Cursor().Get(); got < before {
		t.Errorf("cursor decreased from %v to %v", before, got)
	}
}

// TestTickIgnoredWhileStopped verifies ticks only advance while Playing.
func TestTickIgnoredWhileStopped(t *testing.T) {
	c := newLoadedController(t, 1000)

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(time.Minute))
	if got := c.Cursor().Get(); got != 0 {
		t.Errorf("cursor = %v while stopped, want 0", got)
	}
}

// TestAutoPauseAtEnd verifies reaching the end clamps the cursor to maxIndex
// and transitions to Stopped.
func TestAutoPauseAtEnd(t *testing.T) {
	c := newLoadedController(t, 10)
	c.Play()

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(time.Hour)) // 3600s at 1× = 60 indices, past max

	if got := c.Cursor().Get(); got != 10 {
		t.Errorf("cursor = %v at end of timeline, want 10", got)
	}
	if c.State() != Stopped {
		t.Errorf("state = %v at end of timeline, want Stopped", c.State())
	}

	// Further ticks stay put.
	c.Tick(t0.Add(2 * time.Hour))
	if got := c.Cursor().Get(); got != 10 {
		t.Errorf("cursor = %v after tick at end, want 10", got)
	}
}

// TestPauseCancelsBaseline verifies Play after Pause re-baselines: the
// paused wall-clock gap is not replayed into the cursor.
func TestPauseCancelsBaseline(t *testing.T) {
	c := newLoadedController(t, 1000)
	c.Play()

	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Tick(t0.Add(time.Second))
	c.Pause()

	c.Play()
	c.Tick(t0.Add(time.Hour)) // baseline tick, must not advance

	want := 1.0 / 60.0
	if got := c.Cursor().Get(); math.Abs(got-want) > 1e-9 {
		t.Errorf("cursor = %v after resume baseline, want %v", got, want)
	}
}

// TestScrubStopsAndClamps verifies a scrub forces Stopped and clamps the
// target into range.
func TestScrubStopsAndClamps(t *testing.T) {
	c := newLoadedController(t, 100)
	c.Play()

	if got := c.Scrub(-10); got != 0 {
		t.Errorf("Scrub(-10) = %v, want 0", got)
	}
	if got := c.Scrub(500); got != 100 {
		t.Errorf("Scrub(500) = %v, want 100", got)
	}
	if c.State() != Stopped {
		t.Errorf("state = %v after scrub, want Stopped", c.State())
	}
}

// TestSetSpeedValidation verifies only the discrete multipliers are
// accepted.
func TestSetSpeedValidation(t *testing.T) {
	c := newLoadedController(t, 100)

	for _, s := range Speeds {
		if !c.SetSpeed(s) {
			t.Errorf("SetSpeed(%v) rejected", s)
		}
	}
	for _, s := range []float64{0, -1, 2, 50, 10000} {
		if c.SetSpeed(s) {
			t.Errorf("SetSpeed(%v) accepted", s)
		}
	}
	if got := c.Speed(); got != 1000 {
		t.Errorf("speed = %v, want last accepted 1000", got)
	}
}

// TestResetClearsState verifies installing a new timeline rewinds the
// cursor and stops playback, and that a negative maxIndex disables it.
func TestResetClearsState(t *testing.T) {
	c := newLoadedController(t, 100)
	c.Play()
	c.Scrub(50)

	c.Reset(20)
	if got := c.Cursor().Get(); got != 0 {
		t.Errorf("cursor = %v after Reset, want 0", got)
	}
	if got := c.Cursor().Max(); got != 20 {
		t.Errorf("max = %v after Reset, want 20", got)
	}
	if c.State() != Stopped {
		t.Errorf("state = %v after Reset, want Stopped", c.State())
	}

	c.Reset(-1)
	c.Play()
	if c.State() != Stopped {
		t.Errorf("state = %v after Play on unloaded timeline, want Stopped", c.State())
	}
}
