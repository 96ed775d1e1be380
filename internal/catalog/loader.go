package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/classify"
	"github.com/qu4rkn3t/NEOGuard/internal/tle"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Service is the subset of the service contract the loader consumes.
type Service interface {
	FetchTLE(ctx context.Context, noradID int) (*TLEResponse, error)
	SearchDebris(ctx context.Context, name string, limit int) (*TLEResponse, error)
	Predict(ctx context.Context, line1, line2 string, minutes int) (*PredictResponse, error)
	PropagateBatch(ctx context.Context, records []TLERecord, minutes int) (*BatchPropagateResponse, error)
}

// Publisher receives a fully enriched trajectory set. Satisfied by
// session.Session.
type Publisher interface {
	LoadSet(*trajectory.Set)
}

// LoadSpec describes one load request: named catalog ids fetched
// individually, plus an optional debris catalog group.
type LoadSpec struct {
	NoradIDs    []int
	DebrisGroup string
	DebrisLimit int
	Minutes     int
}

// Loader fetches, enriches, and atomically publishes trajectory sets.
// Per-object fetches run in parallel with no ordering guarantee among
// themselves, but the set is published only once all of them complete:
// partial results are never shown. A failed load leaves prior state
// untouched and reports a single error.
type Loader struct {
	svc    Service
	pub    Publisher
	logger *slog.Logger
	busy   atomic.Bool
}

// NewLoader creates a loader around the given service and publisher.
func NewLoader(svc Service, pub Publisher, logger *slog.Logger) *Loader {
	return &Loader{
		svc:    svc,
		pub:    pub,
		logger: logger,
	}
}

// Busy reports whether a load is outstanding. While true, the operator UI
// shows a busy state and playback of the pending set is not yet possible.
func (l *Loader) Busy() bool {
	return l.busy.Load()
}

// Load runs the spec's fetches, enriches every record, and publishes the set.
// The first trajectory of the result (the first requested id) becomes the
// playback reference.
func (l *Loader) Load(ctx context.Context, spec LoadSpec) error {
	if len(spec.NoradIDs) == 0 && spec.DebrisGroup == "" {
		return fmt.Errorf("empty load spec")
	}
	minutes := ClampMinutes(spec.Minutes)

	l.busy.Store(true)
	defer l.busy.Store(false)

	start := time.Now()

	// One fetch per requested id, in parallel. Results keep request order so
	// the reference trajectory is deterministic.
	byID := make([]*trajectory.Trajectory, len(spec.NoradIDs))
	errs := make([]error, len(spec.NoradIDs))

	var wg sync.WaitGroup
	for i, id := range spec.NoradIDs {
		wg.Add(1)
		go func(slot, noradID int) {
			defer wg.Done()
			tr, err := l.loadOne(ctx, noradID, minutes)
			byID[slot] = tr
			errs[slot] = err
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			l.logger.Warn("trajectory load failed", "norad_id", spec.NoradIDs[i], "error", err)
			return fmt.Errorf("loading NORAD %d: %w", spec.NoradIDs[i], err)
		}
	}

	trajectories := append([]*trajectory.Trajectory(nil), byID...)

	if spec.DebrisGroup != "" {
		debris, err := l.loadDebrisGroup(ctx, spec.DebrisGroup, spec.DebrisLimit, minutes)
		if err != nil {
			l.logger.Warn("debris catalog load failed", "group", spec.DebrisGroup, "error", err)
			return fmt.Errorf("loading debris catalog %q: %w", spec.DebrisGroup, err)
		}
		trajectories = append(trajectories, debris...)
	}

	set := &trajectory.Set{
		Trajectories:      trajectories,
		SampleIntervalSec: trajectory.DefaultSampleIntervalSec,
		LoadedAt:          time.Now(),
	}
	l.pub.LoadSet(set)

	l.logger.Info("trajectory set published",
		"objects", len(trajectories),
		"minutes", minutes,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// loadOne fetches and enriches a single catalog id.
func (l *Loader) loadOne(ctx context.Context, noradID, minutes int) (*trajectory.Trajectory, error) {
	resp, err := l.svc.FetchTLE(ctx, noradID)
	if err != nil {
		return nil, err
	}
	if resp.Count == 0 || len(resp.Records) == 0 {
		return nil, fmt.Errorf("no TLE records")
	}
	rec := resp.Records[0]

	pred, err := l.svc.Predict(ctx, rec.Line1, rec.Line2, minutes)
	if err != nil {
		return nil, err
	}

	return enrich(rec, ToSamples(pred.States), false), nil
}

// loadDebrisGroup fetches a debris catalog and batch-propagates it. Every
// record is flagged as debris, overriding name-based classification.
func (l *Loader) loadDebrisGroup(ctx context.Context, group string, limit, minutes int) ([]*trajectory.Trajectory, error) {
	resp, err := l.svc.SearchDebris(ctx, group, limit)
	if err != nil {
		return nil, err
	}
	if len(resp.Records) == 0 {
		return nil, fmt.Errorf("no records in catalog")
	}

	batch, err := l.svc.PropagateBatch(ctx, resp.Records, minutes)
	if err != nil {
		return nil, err
	}

	byNorad := make(map[int]BatchTrajectory, len(batch.Trajectories))
	for _, bt := range batch.Trajectories {
		byNorad[bt.NoradID] = bt
	}

	out := make([]*trajectory.Trajectory, 0, len(resp.Records))
	for _, rec := range resp.Records {
		// A debris member the propagator rejected or dropped aborts the
		// load: the set is all-or-nothing.
		bt, ok := byNorad[rec.NoradID]
		if !ok {
			return nil, fmt.Errorf("no propagation result for NORAD %d", rec.NoradID)
		}
		if bt.Error != "" {
			return nil, fmt.Errorf("propagation failed for NORAD %d: %s", rec.NoradID, bt.Error)
		}
		out = append(out, enrich(rec, ToSamples(bt.States), true))
	}
	return out, nil
}

// enrich builds the immutable trajectory for one record: classification,
// derived elements (absence on parse failure is a normal state), and epoch.
func enrich(rec TLERecord, samples []trajectory.Sample, fromDebrisCatalog bool) *trajectory.Trajectory {
	c := classify.Classify(rec.Name, fromDebrisCatalog)

	var elements *tle.Elements
	if el, ok := tle.DeriveElements(rec.Line1, rec.Line2); ok {
		elements = &el
	}

	epoch, _ := tle.ParseEpoch(rec.Line1)

	return &trajectory.Trajectory{
		Name:     rec.Name,
		NoradID:  rec.NoradID,
		Category: c.Category,
		Color:    c.Color,
		Shape:    c.Shape,
		Type:     c.Type,
		Epoch:    epoch,
		Elements: elements,
		Samples:  samples,
	}
}
