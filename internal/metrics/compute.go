package metrics

import (
	"fmt"
	"sort"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/phase"
	"github.com/traitlab/pitchmetrics/internal/signal"
	"github.com/traitlab/pitchmetrics/internal/sprint"
)

// Result holds everything one match computation produces.
type Result struct {
	Sprints    []model.SprintEvent
	SprintRows []model.SprintMetrics
	RunRows    []model.RunMetrics
	PressRows  []model.PressMetrics
	Combined   []model.CombinedRow
}

// Compute runs the full pipeline for one match: smooth each player/period's
// tracking, detect sprints, enrich them with phases, aggregate the three
// families, and combine onto the roster. Pure function of its inputs; safe
// to re-run wholesale. Player/period order does not affect the output:
// every grouping is keyed and the outputs are sorted, so a caller may
// scatter the per-player scans and gather into the same result.
func Compute(data *model.MatchData, cfg *config.Config) (*Result, error) {
	idx, err := phase.NewIndex(data.Phases)
	if err != nil {
		return nil, fmt.Errorf("match %s phase index: %w", data.Summary.MatchID, err)
	}

	// ---- Pass 1: per-player/period sprint detection. ----

	type groupKey struct {
		playerID int64
		period   int
	}
	groups := make(map[groupKey][]model.TrackingSample)
	for _, s := range data.Tracking {
		if !s.Detected {
			continue
		}
		k := groupKey{s.PlayerID, s.Period}
		groups[k] = append(groups[k], s)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].playerID != keys[j].playerID {
			return keys[i].playerID < keys[j].playerID
		}
		return keys[i].period < keys[j].period
	})

	var sprints []model.SprintEvent
	for _, k := range keys {
		tr := signal.Smooth(groups[k], cfg)
		if tr == nil {
			continue // too few frames: no sprints for this player/period
		}
		sprints = append(sprints, sprint.Detect(tr, cfg)...)
	}

	// ---- Pass 2: phase enrichment. ----

	enriched := phase.Enrich(idx, sprints)

	// ---- Pass 3: per-family aggregation and the roster join. ----

	sprintRows := AggregateSprints(enriched, data.Roster, cfg)
	runRows := AggregateRuns(data.Runs, data.Roster, cfg)
	pressRows := AggregatePressing(data.Presses, data.Roster, cfg)

	return &Result{
		Sprints:    sprints,
		SprintRows: sprintRows,
		RunRows:    runRows,
		PressRows:  pressRows,
		Combined:   Combine(data.Roster, sprintRows, runRows, pressRows),
	}, nil
}
