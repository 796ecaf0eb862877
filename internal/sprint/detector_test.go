package sprint

import (
	"math"
	"testing"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/signal"
)

// makeTrace builds a trace at a cruising speed with one or more plateaus
// raised to a sprint speed.
func makeTrace(n int, base float64, plateaus ...[3]float64) *signal.Trace {
	speeds := make([]float64, n)
	for i := range speeds {
		speeds[i] = base
	}
	for _, p := range plateaus {
		for i := int(p[0]); i <= int(p[1]); i++ {
			speeds[i] = p[2]
		}
	}
	return &signal.Trace{
		MatchID:    "m1",
		PlayerID:   101,
		Period:     1,
		StartFrame: 0,
		Speeds:     speeds,
	}
}

func TestDetectSinglePlateau(t *testing.T) {
	cfg := config.Default()
	// 28 km/h from frame 50 through 100 inside a 20 km/h trace.
	tr := makeTrace(300, 20, [3]float64{50, 100, 28})

	events := Detect(tr, cfg)
	if len(events) != 1 {
		t.Fatalf("expected exactly one sprint, got %d", len(events))
	}
	ev := events[0]
	if ev.StartFrame != 50 || ev.EndFrame != 100 {
		t.Errorf("frames: want [50, 100], got [%d, %d]", ev.StartFrame, ev.EndFrame)
	}
	if ev.MidFrame != 75 {
		t.Errorf("MidFrame: want 75, got %d", ev.MidFrame)
	}
	if math.Abs(ev.AvgSpeedKMH-28) > 1e-9 {
		t.Errorf("AvgSpeedKMH: want 28, got %f", ev.AvgSpeedKMH)
	}
	if math.Abs(ev.MaxSpeedKMH-28) > 1e-9 {
		t.Errorf("MaxSpeedKMH: want 28, got %f", ev.MaxSpeedKMH)
	}
	if math.Abs(ev.DurationS-5.1) > 1e-9 {
		t.Errorf("DurationS: want 5.1, got %f", ev.DurationS)
	}
	wantDist := 28.0 / 3.6 * 5.1
	if math.Abs(ev.DistanceM-wantDist) > 1e-9 {
		t.Errorf("DistanceM: want %f, got %f", wantDist, ev.DistanceM)
	}
	if ev.Period != 1 || ev.MatchID != "m1" || ev.PlayerID != 101 {
		t.Errorf("event identity mismatch: %+v", ev)
	}
}

// TestDetectGapBridged: a 2-frame dip between two above-threshold runs is
// within tolerance and yields one merged sprint.
func TestDetectGapBridged(t *testing.T) {
	cfg := config.Default()
	tr := makeTrace(200, 20,
		[3]float64{10, 30, 28},
		[3]float64{33, 50, 28}) // frames 31-32 stay at 20

	events := Detect(tr, cfg)
	if len(events) != 1 {
		t.Fatalf("expected one merged sprint, got %d", len(events))
	}
	if events[0].StartFrame != 10 || events[0].EndFrame != 50 {
		t.Errorf("merged frames: want [10, 50], got [%d, %d]",
			events[0].StartFrame, events[0].EndFrame)
	}
}

// TestDetectGapTooWide: a 3-frame dip exceeds tolerance and splits the effort
// into two sprints.
func TestDetectGapTooWide(t *testing.T) {
	cfg := config.Default()
	tr := makeTrace(200, 20,
		[3]float64{10, 30, 28},
		[3]float64{34, 50, 28}) // frames 31-33 stay at 20

	events := Detect(tr, cfg)
	if len(events) != 2 {
		t.Fatalf("expected two separate sprints, got %d", len(events))
	}
	if events[0].EndFrame != 30 || events[1].StartFrame != 34 {
		t.Errorf("split frames: got [%d, %d] and [%d, %d]",
			events[0].StartFrame, events[0].EndFrame,
			events[1].StartFrame, events[1].EndFrame)
	}
}

func TestDetectTooShort(t *testing.T) {
	cfg := config.Default()
	// 5 frames above threshold, minimum is 6.
	tr := makeTrace(100, 20, [3]float64{40, 44, 28})
	if events := Detect(tr, cfg); len(events) != 0 {
		t.Errorf("expected no sprint below minimum duration, got %d", len(events))
	}
}

func TestDetectAvgSpeedAboveBand(t *testing.T) {
	cfg := config.Default()
	// Constant 30 km/h: peak is fine but avg exceeds the 29 km/h cap.
	tr := makeTrace(200, 20, [3]float64{50, 110, 30})
	if events := Detect(tr, cfg); len(events) != 0 {
		t.Errorf("expected rejection on avg speed band, got %d events", len(events))
	}
}

func TestDetectPeakBelowBand(t *testing.T) {
	cfg := config.Default()
	// Constant 25 km/h: above threshold and inside the avg band, but the
	// peak never reaches 26.
	tr := makeTrace(200, 20, [3]float64{50, 110, 25})
	if events := Detect(tr, cfg); len(events) != 0 {
		t.Errorf("expected rejection on peak speed band, got %d events", len(events))
	}
}

// TestDetectBandEdgesInclusive: values sitting exactly on a band bound pass.
func TestDetectBandEdgesInclusive(t *testing.T) {
	cfg := config.Default()

	// Constant 26: avg 26 and peak 26, both exactly on inclusive bounds.
	tr := makeTrace(200, 20, [3]float64{50, 99, 26})
	if events := Detect(tr, cfg); len(events) != 1 {
		t.Errorf("peak exactly at lower bound should pass, got %d events", len(events))
	}

	// Constant 29: avg exactly at the upper avg bound.
	tr = makeTrace(200, 20, [3]float64{50, 99, 29})
	if events := Detect(tr, cfg); len(events) != 1 {
		t.Errorf("avg exactly at upper bound should pass, got %d events", len(events))
	}
}

func TestDetectNilTrace(t *testing.T) {
	if events := Detect(nil, config.Default()); events != nil {
		t.Error("nil trace should yield no events")
	}
}

func TestThresholdRuns(t *testing.T) {
	speeds := []float64{0, 30, 30, 0, 30, 30}

	runs := thresholdRuns(speeds, 24.5, 0)
	if len(runs) != 2 {
		t.Fatalf("tol 0: want 2 runs, got %d", len(runs))
	}
	if runs[0] != (frameRun{1, 2}) || runs[1] != (frameRun{4, 5}) {
		t.Errorf("tol 0: got %+v", runs)
	}

	merged := thresholdRuns(speeds, 24.5, 1)
	if len(merged) != 1 || merged[0] != (frameRun{1, 5}) {
		t.Errorf("tol 1: want one merged run [1, 5], got %+v", merged)
	}
}

func TestQuantile(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50}
	if got := quantile(vals, 0.5); got != 30 {
		t.Errorf("median: want 30, got %f", got)
	}
	// 0.9 of 4 intervals lands at position 3.6: 40 + 0.6*(50-40).
	if got := quantile(vals, 0.9); math.Abs(got-46) > 1e-9 {
		t.Errorf("q90: want 46, got %f", got)
	}
	if got := quantile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single value: want 7, got %f", got)
	}
}
