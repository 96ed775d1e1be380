package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/camera"
	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/playback"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store := trajectory.NewStore()
	cursor := playback.NewCursor()
	controller := playback.NewController(cursor, 60, testLogger)
	follow := camera.NewFollow(100, 5000)
	return New(store, controller, follow, testLogger)
}

func testSet(names ...string) *trajectory.Set {
	trs := make([]*trajectory.Trajectory, 0, len(names))
	for i, name := range names {
		samples := make([]trajectory.Sample, 91)
		for j := range samples {
			samples[j] = trajectory.Sample{
				T: float64(j) * 60,
				R: geom.Vec3{X: 6778 + float64(i)},
			}
		}
		trs = append(trs, &trajectory.Trajectory{Name: name, NoradID: i + 1, Samples: samples})
	}
	return &trajectory.Set{
		Trajectories:      trs,
		SampleIntervalSec: 60,
		LoadedAt:          time.Now(),
	}
}

// TestLoadSetResetsEverything verifies publishing a set rewinds the cursor,
// stops playback, and clears any selection and follow state.
func TestLoadSetResetsEverything(t *testing.T) {
	s := newTestSession(t)
	s.LoadSet(testSet("A", "B"))
	s.Select(1)
	s.SetFollow(true)
	s.Controller().Play()
	s.Controller().Scrub(40)

	s.LoadSet(testSet("C"))

	if got := s.Controller().Cursor().Get(); got != 0 {
		t.Errorf("cursor = %v after load, want 0", got)
	}
	if s.Controller().State() != playback.Stopped {
		t.Errorf("state = %v after load, want Stopped", s.Controller().State())
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection survived a set load")
	}
	if s.FollowEnabled() {
		t.Error("follow survived a set load")
	}
	if got := s.Controller().Cursor().Max(); got != 90 {
		t.Errorf("max index = %v, want 90", got)
	}
}

// TestSelectOutOfRangeClears verifies an out-of-range selection clears
// instead of selecting.
func TestSelectOutOfRangeClears(t *testing.T) {
	s := newTestSession(t)
	s.LoadSet(testSet("A", "B"))

	s.Select(1)
	if i, ok := s.Selected(); !ok || i != 1 {
		t.Fatalf("Selected() = %d, %v; want 1, true", i, ok)
	}

	s.Select(5)
	if _, ok := s.Selected(); ok {
		t.Error("out-of-range Select left a selection")
	}

	s.Select(-1)
	if _, ok := s.Selected(); ok {
		t.Error("negative Select left a selection")
	}
}

// TestClearSelectionDisablesFollow verifies the referential invariant:
// no selection, no follow.
func TestClearSelectionDisablesFollow(t *testing.T) {
	s := newTestSession(t)
	s.LoadSet(testSet("A", "B"))
	s.Select(0)
	s.SetFollow(true)
	if !s.FollowEnabled() {
		t.Fatal("follow not enabled")
	}

	s.ClearSelection()
	if s.FollowEnabled() {
		t.Error("follow still enabled after ClearSelection")
	}
	if s.Follow().Active() {
		t.Error("camera controller still active after ClearSelection")
	}
}

// TestSelectionChangeRebaselinesFollow verifies that switching objects while
// follow is on drops the camera baseline, so reactivation snaps to the new
// target instead of carrying the old look-at.
func TestSelectionChangeRebaselinesFollow(t *testing.T) {
	s := newTestSession(t)
	s.LoadSet(testSet("A", "B"))
	s.Select(0)
	s.SetFollow(true)
	s.Follow().Activate(geom.Vec3{X: 7000, Y: 200}, geom.Vec3{X: 6778})
	if !s.Follow().Active() {
		t.Fatal("camera controller not active after Activate")
	}

	// Re-selecting the same object keeps the baseline.
	s.Select(0)
	if !s.Follow().Active() {
		t.Error("re-selecting the same index deactivated the camera")
	}

	s.Select(1)
	if !s.FollowEnabled() {
		t.Error("follow disabled by selection change")
	}
	if s.Follow().Active() {
		t.Error("camera baseline survived a selection change")
	}

	// With follow off, selection changes leave the camera alone.
	s.SetFollow(false)
	s.Follow().Activate(geom.Vec3{X: 7000, Y: 200}, geom.Vec3{X: 6779})
	s.Select(0)
	if !s.Follow().Active() {
		t.Error("selection change deactivated a manually activated camera")
	}
}

// TestSetFollowRequiresSelection verifies enabling follow with nothing
// selected is a no-op.
func TestSetFollowRequiresSelection(t *testing.T) {
	s := newTestSession(t)
	s.LoadSet(testSet("A"))

	s.SetFollow(true)
	if s.FollowEnabled() {
		t.Error("follow enabled without a selection")
	}

	s.Select(0)
	s.SetFollow(true)
	if !s.FollowEnabled() {
		t.Error("follow not enabled with a selection")
	}

	s.SetFollow(false)
	if s.FollowEnabled() {
		t.Error("follow still enabled after SetFollow(false)")
	}
}

// TestSelectedTrajectory verifies the selection resolves against the
// currently published set.
func TestSelectedTrajectory(t *testing.T) {
	s := newTestSession(t)

	if _, ok := s.SelectedTrajectory(); ok {
		t.Error("SelectedTrajectory on empty session returned a trajectory")
	}

	s.LoadSet(testSet("A", "B"))
	s.Select(1)
	tr, ok := s.SelectedTrajectory()
	if !ok || tr.Name != "B" {
		t.Errorf("SelectedTrajectory = %v, %v; want B", tr, ok)
	}
}
