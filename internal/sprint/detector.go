// Package sprint detects discrete sprint events from a smoothed speed
// trace. Detection (coarse thresholding with gap bridging) is separate from
// validation (range checks), so transient noise is rejected without
// discarding short high-intensity efforts.
package sprint

import (
	"math"
	"sort"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/signal"
)

// Detect scans a single player/period trace and returns the validated
// sprints, in frame order. A candidate failing any validation band is
// dropped silently; absence is the signal. Because the trace covers one
// period, no emitted sprint can span a period boundary.
func Detect(tr *signal.Trace, cfg *config.Config) []model.SprintEvent {
	if tr == nil || len(tr.Speeds) == 0 {
		return nil
	}

	var out []model.SprintEvent
	for _, run := range thresholdRuns(tr.Speeds, cfg.SprintThresholdKMH, cfg.GapToleranceFrames) {
		if ev, ok := validate(tr, run, cfg); ok {
			out = append(out, ev)
		}
	}
	return out
}

// frameRun is a candidate run as [start, end] indices into the trace.
type frameRun struct{ start, end int }

// thresholdRuns groups maximal contiguous above-threshold runs, bridging
// below-threshold dips of at most gapTolerance frames that sit between two
// above-threshold runs.
func thresholdRuns(speeds []float64, threshold float64, gapTolerance int) []frameRun {
	var runs []frameRun
	start := -1
	for i, v := range speeds {
		if v >= threshold {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, frameRun{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, frameRun{start, len(speeds) - 1})
	}

	if gapTolerance <= 0 || len(runs) < 2 {
		return runs
	}

	// Merge neighbors separated by a dip within tolerance.
	merged := runs[:1]
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if r.start-last.end-1 <= gapTolerance {
			last.end = r.end
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// validate computes the candidate's stats and checks them against the
// configured bands. All band bounds are inclusive.
func validate(tr *signal.Trace, run frameRun, cfg *config.Config) (model.SprintEvent, bool) {
	frames := run.end - run.start + 1
	if frames < cfg.MinSprintFrames {
		return model.SprintEvent{}, false
	}

	window := tr.Speeds[run.start : run.end+1]
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	avg := sum / float64(frames)
	peak := quantile(window, cfg.PeakQuantile)

	durationS := float64(frames) / float64(cfg.FPS)
	distanceM := avg / 3.6 * durationS

	if avg < cfg.AvgSpeedMinKMH || avg > cfg.AvgSpeedMaxKMH {
		return model.SprintEvent{}, false
	}
	if peak < cfg.PeakSpeedMinKMH || peak > cfg.PeakSpeedMaxKMH {
		return model.SprintEvent{}, false
	}
	if distanceM < cfg.MinSprintDistanceM {
		return model.SprintEvent{}, false
	}

	startFrame := tr.Frame(run.start)
	endFrame := tr.Frame(run.end)
	return model.SprintEvent{
		MatchID:     tr.MatchID,
		PlayerID:    tr.PlayerID,
		Period:      tr.Period,
		StartFrame:  startFrame,
		EndFrame:    endFrame,
		MidFrame:    (startFrame + endFrame) / 2,
		DurationS:   durationS,
		DistanceM:   distanceM,
		AvgSpeedKMH: avg,
		MaxSpeedKMH: peak,
	}, true
}

// quantile returns the q-quantile of values with linear interpolation
// between order statistics.
func quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
