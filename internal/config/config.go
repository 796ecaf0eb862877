// Package config holds every tunable of the metrics engine in one immutable
// struct. Stages receive the config explicitly; nothing reads ambient state,
// so tests can run multiple configurations side by side.
package config

import (
	"fmt"
	"math"
)

// Config is the full configuration surface: signal cleaning, sprint
// detection/validation, and per-family aggregation filters.
type Config struct {
	// FPS is the tracking sampling rate in frames per second.
	FPS int `koanf:"fps"`

	// TeleportThresholdM discards single-frame displacements larger than
	// this (meters); such jumps are tracking glitches, not motion.
	TeleportThresholdM float64 `koanf:"teleport_threshold_m"`

	// SpeedCeilingKMH caps instantaneous speed before smoothing.
	SpeedCeilingKMH float64 `koanf:"speed_ceiling_kmh"`

	// MedianWindowSec and MeanWindowSec size the two smoothing passes in
	// the time domain, so frame counts track the sampling rate.
	MedianWindowSec float64 `koanf:"median_window_sec"`
	MeanWindowSec   float64 `koanf:"mean_window_sec"`

	// SprintThresholdKMH marks a frame as above-threshold.
	SprintThresholdKMH float64 `koanf:"sprint_threshold_kmh"`

	// GapToleranceFrames bridges a short below-threshold dip inside an
	// otherwise above-threshold run.
	GapToleranceFrames int `koanf:"gap_tolerance_frames"`

	// Sprint validation bands. All bounds are inclusive.
	MinSprintFrames    int     `koanf:"min_sprint_frames"`
	MinSprintDistanceM float64 `koanf:"min_sprint_distance_m"`
	AvgSpeedMinKMH     float64 `koanf:"avg_speed_min_kmh"`
	AvgSpeedMaxKMH     float64 `koanf:"avg_speed_max_kmh"`
	PeakSpeedMinKMH    float64 `koanf:"peak_speed_min_kmh"`
	PeakSpeedMaxKMH    float64 `koanf:"peak_speed_max_kmh"`

	// PeakQuantile is the quantile of in-run smoothed speeds reported as
	// the sprint's peak; a high quantile resists single-frame spikes.
	PeakQuantile float64 `koanf:"peak_quantile"`

	// Per-family minimum-sample filters.
	MinMinutesSprints  float64 `koanf:"min_minutes_sprints"`
	MinMinutesRuns     float64 `koanf:"min_minutes_runs"`
	MinMinutesPressing float64 `koanf:"min_minutes_pressing"`
	MinRunEvents       int     `koanf:"min_run_events"`
	MinPressEvents     int     `koanf:"min_press_events"`

	// HighValuePhases enumerates the in-possession phase types counted as
	// high value. Configuration, not detector logic.
	HighValuePhases []string `koanf:"high_value_phases"`
}

// Default returns the configuration tuned for 10 Hz SkillCorner-style data.
func Default() *Config {
	return &Config{
		FPS:                10,
		TeleportThresholdM: 1.0,
		SpeedCeilingKMH:    32.0,
		MedianWindowSec:    1.1,
		MeanWindowSec:      0.7,
		SprintThresholdKMH: 24.5,
		GapToleranceFrames: 2,
		MinSprintFrames:    6,
		MinSprintDistanceM: 7.0,
		AvgSpeedMinKMH:     24.5,
		AvgSpeedMaxKMH:     29.0,
		PeakSpeedMinKMH:    26.0,
		PeakSpeedMaxKMH:    33.0,
		PeakQuantile:       0.90,
		MinMinutesSprints:  30.0,
		MinMinutesRuns:     10.0,
		MinMinutesPressing: 30.0,
		MinRunEvents:       3,
		MinPressEvents:     3,
		HighValuePhases:    []string{"create", "finish", "quick_break", "transition"},
	}
}

// MedianWindowFrames converts the median window to frames: always odd and
// at least 1, so the window stays centered.
func (c *Config) MedianWindowFrames() int { return oddFrames(c.MedianWindowSec, c.FPS) }

// MeanWindowFrames converts the mean window to frames (odd, >= 1).
func (c *Config) MeanWindowFrames() int { return oddFrames(c.MeanWindowSec, c.FPS) }

// MinValidFrames is the minimum tracked-frame count below which a
// player/period is skipped entirely. One median window of data.
func (c *Config) MinValidFrames() int { return c.MedianWindowFrames() }

// HighValuePhaseSet returns the high-value phase types as a lookup set.
func (c *Config) HighValuePhaseSet() map[string]bool {
	set := make(map[string]bool, len(c.HighValuePhases))
	for _, p := range c.HighValuePhases {
		set[p] = true
	}
	return set
}

func oddFrames(sec float64, fps int) int {
	n := int(math.Round(sec * float64(fps)))
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// Validate checks internal consistency. Called after every Load.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.TeleportThresholdM <= 0 {
		return fmt.Errorf("teleport_threshold_m must be positive, got %g", c.TeleportThresholdM)
	}
	if c.SprintThresholdKMH <= 0 || c.SprintThresholdKMH >= c.SpeedCeilingKMH {
		return fmt.Errorf("sprint_threshold_kmh %g must be within (0, speed ceiling %g)",
			c.SprintThresholdKMH, c.SpeedCeilingKMH)
	}
	if c.AvgSpeedMinKMH > c.AvgSpeedMaxKMH {
		return fmt.Errorf("avg speed band inverted: [%g, %g]", c.AvgSpeedMinKMH, c.AvgSpeedMaxKMH)
	}
	if c.PeakSpeedMinKMH > c.PeakSpeedMaxKMH {
		return fmt.Errorf("peak speed band inverted: [%g, %g]", c.PeakSpeedMinKMH, c.PeakSpeedMaxKMH)
	}
	if c.PeakQuantile <= 0 || c.PeakQuantile > 1 {
		return fmt.Errorf("peak_quantile must be in (0, 1], got %g", c.PeakQuantile)
	}
	if c.GapToleranceFrames < 0 {
		return fmt.Errorf("gap_tolerance_frames must not be negative, got %d", c.GapToleranceFrames)
	}
	if c.MinSprintFrames < 1 {
		return fmt.Errorf("min_sprint_frames must be at least 1, got %d", c.MinSprintFrames)
	}
	return nil
}
