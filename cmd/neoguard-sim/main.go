// Command neoguard-sim is a headless playback driver. It loads a YAML
// scenario, fetches and enriches trajectories from a running NEOGuard
// server, then plays the set back under a frame ticker, reporting the
// cursor, render windows, and follow camera as it goes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qu4rkn3t/NEOGuard/internal/camera"
	"github.com/qu4rkn3t/NEOGuard/internal/catalog"
	"github.com/qu4rkn3t/NEOGuard/internal/geom"
	"github.com/qu4rkn3t/NEOGuard/internal/playback"
	"github.com/qu4rkn3t/NEOGuard/internal/render"
	"github.com/qu4rkn3t/NEOGuard/internal/session"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Scenario is the YAML playback scenario.
type Scenario struct {
	Server      string `yaml:"server"`
	NoradIDs    []int  `yaml:"norad_ids"`
	DebrisGroup string `yaml:"debris_group"`
	DebrisLimit int    `yaml:"debris_limit"`
	Minutes     int    `yaml:"minutes"`

	Speed             float64 `yaml:"speed"`
	TrailMinutes      float64 `yaml:"trail_minutes"`
	FullOrbit         bool    `yaml:"full_orbit"`
	DecayExaggeration float64 `yaml:"decay_exaggeration"`

	FollowIndex *int `yaml:"follow_index"`
	Camera      struct {
		MinDistance float64 `yaml:"min_distance"`
		MaxDistance float64 `yaml:"max_distance"`
	} `yaml:"camera"`

	RiskThresholdKm float64 `yaml:"risk_threshold_km"`
	DurationSec     int     `yaml:"duration_sec"`
	FrameIntervalMs int     `yaml:"frame_interval_ms"`
}

func (sc *Scenario) duration() time.Duration {
	if sc.DurationSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(sc.DurationSec) * time.Second
}

func (sc *Scenario) frameInterval() time.Duration {
	if sc.FrameIntervalMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(sc.FrameIntervalMs) * time.Millisecond
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	sc := &Scenario{
		Minutes:         360,
		Speed:           100,
		TrailMinutes:    60,
		RiskThresholdKm: 50,
		DurationSec:     30,
		FrameIntervalMs: 50,
	}
	sc.Camera.MinDistance = 25
	sc.Camera.MaxDistance = 4000

	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Server == "" {
		sc.Server = "http://localhost:8080"
	}
	return sc, nil
}

func main() {
	scenarioPath := flag.String("scenario", "scenario.yaml", "path to the YAML scenario")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}

	store := trajectory.NewStore()
	cursor := playback.NewCursor()
	controller := playback.NewController(cursor, trajectory.DefaultSampleIntervalSec, logger)
	follow := camera.NewFollow(sc.Camera.MinDistance, sc.Camera.MaxDistance)
	sess := session.New(store, controller, follow, logger)

	client := catalog.NewClient(sc.Server)
	loader := catalog.NewLoader(client, sess, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("Loading %d objects (debris group %q) from %s...\n", len(sc.NoradIDs), sc.DebrisGroup, sc.Server)
	if err := loader.Load(ctx, catalog.LoadSpec{
		NoradIDs:    sc.NoradIDs,
		DebrisGroup: sc.DebrisGroup,
		DebrisLimit: sc.DebrisLimit,
		Minutes:     sc.Minutes,
	}); err != nil {
		fmt.Println("ERROR loading trajectories:", err)
		os.Exit(1)
	}

	set := store.Get()
	for i, tr := range set.Trajectories {
		desc := "elements unavailable"
		if tr.Elements != nil {
			desc = fmt.Sprintf("apogee=%.0fkm perigee=%.0fkm incl=%.1f° period=%.1fmin",
				tr.Elements.ApogeeKm, tr.Elements.PerigeeKm, tr.Elements.InclinationDeg, tr.Elements.PeriodMin)
		}
		fmt.Printf("  [%d] %s (NORAD %d) %s/%s %s\n", i, tr.Name, tr.NoradID, tr.Category, tr.Type, desc)
	}

	if sc.FollowIndex != nil {
		sess.Select(*sc.FollowIndex)
		sess.SetFollow(true)
	}

	if !controller.SetSpeed(sc.Speed) {
		fmt.Printf("Speed %.0fx not in %v, keeping %.0fx.\n", sc.Speed, playback.Speeds, controller.Speed())
	}
	controller.Play()
	fmt.Printf("Playing at %.0fx over %d samples...\n", controller.Speed(), set.MaxIndex()+1)

	runPlayback(sc, sess)

	reportRisk(ctx, client, set, sc.RiskThresholdKm)
}

// runPlayback drives the controller from a frame ticker and reports once a
// second until the scenario duration elapses or playback reaches the end of
// the timeline.
func runPlayback(sc *Scenario, sess *session.Session) {
	controller := sess.Controller()
	cursor := controller.Cursor()
	set := sess.Store().Get()

	// The camera starts on a fixed vantage point; follow re-baselines from
	// it on activation.
	camPos := geom.Vec3{X: 15000, Y: 0, Z: 8000}
	lookAt := geom.Vec3{}

	frames := time.NewTicker(sc.frameInterval())
	defer frames.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()
	deadline := time.After(sc.duration())

	for {
		select {
		case now := <-frames.C:
			controller.Tick(now)

			idx := render.Index(cursor.Get(), set.MaxIndex())
			if tr, ok := sess.SelectedTrajectory(); ok && sess.FollowEnabled() {
				if sample, exists := tr.At(idx); exists {
					if !sess.Follow().Active() {
						sess.Follow().Activate(camPos, sample.R)
					}
					camPos, lookAt = sess.Follow().Step(sample.R, sample.V)
				}
			}

		case <-report.C:
			idx := render.Index(cursor.Get(), set.MaxIndex())
			var trailSegs, ghostSegs, orbitSegs int
			for _, tr := range set.Trajectories {
				trailSegs += len(render.Trail(tr, idx, sc.TrailMinutes, set.SampleIntervalSec))
				ghostSegs += len(render.DecayGhost(tr, idx, sc.TrailMinutes, set.SampleIntervalSec, sc.DecayExaggeration))
				if sc.FullOrbit {
					orbitSegs += len(render.FullOrbit(tr))
				}
			}
			fmt.Printf("t=%7.2f idx=%4d state=%s trail=%d ghost=%d orbit=%d cam=(%.0f,%.0f,%.0f) look=(%.0f,%.0f,%.0f)\n",
				cursor.Get(), idx, controller.State(), trailSegs, ghostSegs, orbitSegs,
				camPos.X, camPos.Y, camPos.Z, lookAt.X, lookAt.Y, lookAt.Z)

			if controller.State() == playback.Stopped && cursor.Get() >= cursor.Max() {
				fmt.Println("Reached end of timeline.")
				return
			}

		case <-deadline:
			controller.Pause()
			fmt.Printf("Scenario duration elapsed at t=%.2f.\n", cursor.Get())
			return
		}
	}
}

// reportRisk scores every other object against the reference trajectory and
// prints the close approaches.
func reportRisk(ctx context.Context, client *catalog.Client, set *trajectory.Set, thresholdKm float64) {
	if len(set.Trajectories) < 2 {
		return
	}

	ref := set.Trajectories[0]
	req := catalog.RiskRequest{
		Debris: catalog.RiskTarget{
			Name:   ref.Name,
			States: catalog.FromSamples(ref.Samples),
		},
		ThresholdKm: thresholdKm,
	}
	for _, tr := range set.Trajectories[1:] {
		req.Targets = append(req.Targets, catalog.RiskTarget{
			Name:   tr.Name,
			States: catalog.FromSamples(tr.Samples),
		})
	}

	resp, err := client.AssessRisk(ctx, req)
	if err != nil {
		fmt.Println("ERROR assessing risk:", err)
		return
	}

	fmt.Printf("\nClose approaches vs %s:\n", ref.Name)
	for _, a := range resp.Approaches {
		fmt.Printf("  %-24s min=%8.1fkm vrel=%5.2fkm/s t=%6.0fs risk=%.3f\n",
			a.Target, a.MinDistanceKm, a.RelSpeedKms, a.TimestampSec, a.RiskScore)
	}
}
