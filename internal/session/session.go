// Package session ties the trajectory store, playback controller and camera
// follow controller together and enforces the selection/follow referential
// invariant: follow can only be enabled while a selection exists, and
// clearing the selection always disables follow.
package session

import (
	"log/slog"
	"sync"

	"github.com/qu4rkn3t/NEOGuard/internal/camera"
	"github.com/qu4rkn3t/NEOGuard/internal/playback"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Session is the mutable operator state for one simulation run.
type Session struct {
	store      *trajectory.Store
	controller *playback.Controller
	follow     *camera.Follow
	logger     *slog.Logger

	mu            sync.Mutex
	selectedIndex int
	hasSelection  bool
	followEnabled bool
}

// New creates a session around the given store, controller and follow
// camera.
func New(store *trajectory.Store, controller *playback.Controller, follow *camera.Follow, logger *slog.Logger) *Session {
	return &Session{
		store:      store,
		controller: controller,
		follow:     follow,
		logger:     logger,
	}
}

// Store returns the trajectory store.
func (s *Session) Store() *trajectory.Store { return s.store }

// Controller returns the playback controller.
func (s *Session) Controller() *playback.Controller { return s.controller }

// Follow returns the camera follow controller.
func (s *Session) Follow() *camera.Follow { return s.follow }

// LoadSet publishes a new trajectory set, resets the cursor to 0, forces
// Stopped, and clears selection and follow.
func (s *Session) LoadSet(set *trajectory.Set) {
	s.store.Set(set)
	s.controller.Reset(float64(set.MaxIndex()))

	s.mu.Lock()
	s.hasSelection = false
	s.selectedIndex = 0
	s.followEnabled = false
	s.mu.Unlock()
	s.follow.Deactivate()

	if s.logger != nil {
		s.logger.Info("trajectory set loaded",
			"objects", len(set.Trajectories),
			"max_index", set.MaxIndex(),
			"sample_interval_sec", set.SampleIntervalSec,
		)
	}
}

// Select marks the trajectory at index i as selected. Out-of-range indices
// clear the selection instead. Changing the selection while follow is on
// deactivates the camera controller, so the next activation snaps the
// look-at to the new object instead of inheriting the old baseline.
func (s *Session) Select(i int) {
	set := s.store.Get()
	if set == nil || i < 0 || i >= len(set.Trajectories) {
		s.ClearSelection()
		return
	}

	s.mu.Lock()
	changed := !s.hasSelection || s.selectedIndex != i
	s.selectedIndex = i
	s.hasSelection = true
	rebaseline := changed && s.followEnabled
	s.mu.Unlock()

	if rebaseline {
		s.follow.Deactivate()
	}
}

// ClearSelection removes the selection and always disables follow.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.hasSelection = false
	s.selectedIndex = 0
	s.followEnabled = false
	s.mu.Unlock()
	s.follow.Deactivate()
}

// Selected returns the current selection, if any.
func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIndex, s.hasSelection
}

// SelectedTrajectory returns the selected trajectory, if any.
func (s *Session) SelectedTrajectory() (*trajectory.Trajectory, bool) {
	i, ok := s.Selected()
	if !ok {
		return nil, false
	}
	set := s.store.Get()
	if set == nil || i >= len(set.Trajectories) {
		return nil, false
	}
	return set.Trajectories[i], true
}

// SetFollow toggles camera follow. Enabling without a selection is a no-op.
// Disabling deactivates the camera controller so manual control resumes.
func (s *Session) SetFollow(enabled bool) {
	s.mu.Lock()
	if enabled && !s.hasSelection {
		s.mu.Unlock()
		return
	}
	s.followEnabled = enabled
	s.mu.Unlock()

	if !enabled {
		s.follow.Deactivate()
	}
}

// FollowEnabled reports whether follow is on.
func (s *Session) FollowEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followEnabled
}
