// Package signal turns raw per-frame positions into a smoothed per-frame
// speed trace. It is the only producer of speed signals; the sprint
// detector is the only consumer.
package signal

import (
	"math"
	"sort"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/model"
)

// Trace is the smoothed speed signal for one player within one period.
// Speeds[i] is the speed in km/h at frame StartFrame+i; no entry is ever
// undefined inside the span.
type Trace struct {
	MatchID    string
	PlayerID   int64
	Period     int
	StartFrame int
	Speeds     []float64
}

// Frame returns the absolute frame index of sample i.
func (t *Trace) Frame(i int) int { return t.StartFrame + i }

// Smooth converts ordered tracking samples for one player/period into a
// smoothed speed trace:
//
//  1. frame-to-frame displacement, with teleport-sized jumps discarded
//     (previous valid speed carried forward),
//  2. displacement to km/h, clipped at the configured ceiling,
//  3. centered median filter, then centered mean filter, both sized in
//     frames from the configured time windows.
//
// Returns nil when fewer than cfg.MinValidFrames() samples are available;
// that player/period simply produces no sprints.
func Smooth(samples []model.TrackingSample, cfg *config.Config) *Trace {
	if len(samples) < cfg.MinValidFrames() {
		return nil
	}

	first := samples[0].FrameIndex
	last := samples[len(samples)-1].FrameIndex
	n := last - first + 1
	speeds := make([]float64, n)
	frameSec := 1.0 / float64(cfg.FPS)

	// One slot per frame across the tracked span. Frames between samples
	// (tracking holes) and glitch frames carry the previous valid speed.
	prev := 0.0
	havePrev := false
	firstValid := -1
	for i := 1; i < len(samples); i++ {
		idx := samples[i].FrameIndex - first
		dx := samples[i].X - samples[i-1].X
		dy := samples[i].Y - samples[i-1].Y
		gap := samples[i].FrameIndex - samples[i-1].FrameIndex
		distM := math.Hypot(dx, dy)

		// A displacement no human covers in one frame interval is a
		// tracking glitch, not genuine motion.
		if gap == 1 && distM <= cfg.TeleportThresholdM {
			kmh := distM / frameSec * 3.6
			if kmh > cfg.SpeedCeilingKMH {
				kmh = cfg.SpeedCeilingKMH
			}
			prev = kmh
			if !havePrev {
				havePrev = true
				firstValid = idx
			}
		}
		// Fill this frame and any hole frames since the previous sample.
		for j := samples[i-1].FrameIndex - first + 1; j <= idx; j++ {
			speeds[j] = prev
		}
	}
	if !havePrev {
		// Not a single valid displacement: player never moved plausibly.
		return nil
	}
	// Backfill everything before the first valid displacement.
	for j := 0; j < firstValid; j++ {
		speeds[j] = speeds[firstValid]
	}

	smoothed := rollingMedian(speeds, cfg.MedianWindowFrames())
	smoothed = rollingMean(smoothed, cfg.MeanWindowFrames())

	return &Trace{
		MatchID:    samples[0].MatchID,
		PlayerID:   samples[0].PlayerID,
		Period:     samples[0].Period,
		StartFrame: samples[0].FrameIndex,
		Speeds:     smoothed,
	}
}

// rollingMedian applies a centered median over window frames, shrinking the
// window at the edges rather than padding.
func rollingMedian(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	half := window / 2
	buf := make([]float64, 0, window)
	for i := range in {
		lo, hi := i-half, i+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(in) {
			hi = len(in)
		}
		buf = append(buf[:0], in[lo:hi]...)
		sort.Float64s(buf)
		m := len(buf)
		if m%2 == 1 {
			out[i] = buf[m/2]
		} else {
			out[i] = (buf[m/2-1] + buf[m/2]) / 2
		}
	}
	return out
}

// rollingMean applies a centered mean over window frames, shrinking the
// window at the edges.
func rollingMean(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	half := window / 2
	for i := range in {
		lo, hi := i-half, i+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(in) {
			hi = len(in)
		}
		sum := 0.0
		for _, v := range in[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
