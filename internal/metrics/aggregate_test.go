package metrics

import (
	"math"
	"testing"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/phase"
)

func makeMeta(playerID, teamID int64, minutes float64) model.PlayerMeta {
	return model.PlayerMeta{
		MatchID:       "m1",
		PlayerID:      playerID,
		TeamID:        teamID,
		MinutesPlayed: minutes,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ---- Sprint aggregation ----

func TestAggregateSprints(t *testing.T) {
	cfg := config.Default()
	roster := []model.PlayerMeta{
		makeMeta(101, 7, 45),
		makeMeta(102, 8, 20), // below the 30-minute floor
		makeMeta(103, 7, 0),  // never entered the pitch
	}

	createPhase := &model.PhaseInterval{
		InPossessionType: "create", TeamInPossessionID: 7,
		LeadToShot: true, ThirdEnd: "attacking_third",
	}
	buildUpPhase := &model.PhaseInterval{
		InPossessionType: "build_up", TeamInPossessionID: 8,
		LeadToGoal: true,
	}

	sprint := func(playerID int64, dist, avg, peak float64) model.SprintEvent {
		return model.SprintEvent{MatchID: "m1", PlayerID: playerID,
			DistanceM: dist, AvgSpeedKMH: avg, MaxSpeedKMH: peak}
	}
	enriched := []phase.Enriched[model.SprintEvent]{
		{Event: sprint(101, 10, 26, 28), Phase: createPhase},
		{Event: sprint(101, 10, 27, 29), Phase: buildUpPhase},
		{Event: sprint(101, 10, 28, 30), Phase: nil}, // unclassified gap
		{Event: sprint(102, 10, 26, 28), Phase: createPhase},
		{Event: sprint(103, 10, 26, 28), Phase: createPhase},
	}

	rows := AggregateSprints(enriched, roster, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected only player 101 to survive the filters, got %d rows", len(rows))
	}
	r := rows[0]
	if r.PlayerID != 101 || r.MatchID != "m1" {
		t.Errorf("row identity mismatch: %+v", r)
	}
	if r.SprintCount != 3 || r.PhasedCount != 2 {
		t.Errorf("counts: want 3 sprints / 2 phased, got %d / %d", r.SprintCount, r.PhasedCount)
	}
	if !approx(r.SprintsPer90, 6.0) {
		t.Errorf("SprintsPer90: want 6.0 (3 in 45 min), got %f", r.SprintsPer90)
	}
	if !approx(r.SprintDistanceM, 30) || !approx(r.SprintDistancePer90, 60) {
		t.Errorf("distance: want 30 total / 60 per 90, got %f / %f",
			r.SprintDistanceM, r.SprintDistancePer90)
	}
	if !approx(r.AvgSpeedKMH, 27) || !approx(r.MaxSpeedKMH, 29) {
		t.Errorf("speeds: want avg 27 / peak 29, got %f / %f", r.AvgSpeedKMH, r.MaxSpeedKMH)
	}
	// Phase rates use the 2 phased sprints as denominator; the unphased
	// sprint counts for volume only.
	if !approx(r.HighValuePct, 0.5) {
		t.Errorf("HighValuePct: want 0.5, got %f", r.HighValuePct)
	}
	if !approx(r.AttackingPct, 0.5) || !approx(r.DefensivePct, 0.5) {
		t.Errorf("attacking/defensive: want 0.5/0.5, got %f/%f", r.AttackingPct, r.DefensivePct)
	}
	if !approx(r.ShotPossessionPct, 0.5) || !approx(r.GoalPossessionPct, 0.5) {
		t.Errorf("shot/goal: want 0.5/0.5, got %f/%f", r.ShotPossessionPct, r.GoalPossessionPct)
	}
	if !approx(r.AttackingThirdPct, 0.5) {
		t.Errorf("AttackingThirdPct: want 0.5, got %f", r.AttackingThirdPct)
	}
	if !approx(r.HighValueSprintsPer90, 3.0) {
		t.Errorf("HighValueSprintsPer90: want 6.0 * 0.5 = 3.0, got %f", r.HighValueSprintsPer90)
	}
}

// TestAggregateSprintsPer90Exact: 2 sprints in 10 minutes scale to exactly
// 18 per 90 once the minutes floor is lowered.
func TestAggregateSprintsPer90Exact(t *testing.T) {
	cfg := config.Default()
	cfg.MinMinutesSprints = 0
	roster := []model.PlayerMeta{makeMeta(101, 7, 10)}
	enriched := []phase.Enriched[model.SprintEvent]{
		{Event: model.SprintEvent{MatchID: "m1", PlayerID: 101}},
		{Event: model.SprintEvent{MatchID: "m1", PlayerID: 101}},
	}

	rows := AggregateSprints(enriched, roster, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if !approx(rows[0].SprintsPer90, 18.0) {
		t.Errorf("SprintsPer90: want 2 * 90 / 10 = 18.0, got %f", rows[0].SprintsPer90)
	}
}

func TestAggregateSprintsAllUnphased(t *testing.T) {
	cfg := config.Default()
	roster := []model.PlayerMeta{makeMeta(101, 7, 90)}
	enriched := []phase.Enriched[model.SprintEvent]{
		{Event: model.SprintEvent{MatchID: "m1", PlayerID: 101, DistanceM: 12}},
		{Event: model.SprintEvent{MatchID: "m1", PlayerID: 101, DistanceM: 15}},
	}

	rows := AggregateSprints(enriched, roster, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	r := rows[0]
	if r.SprintCount != 2 || r.PhasedCount != 0 {
		t.Errorf("counts: want 2 / 0 phased, got %d / %d", r.SprintCount, r.PhasedCount)
	}
	// No phased denominator: every phase rate collapses to zero.
	if r.HighValuePct != 0 || r.AttackingPct != 0 || r.AttackingThirdPct != 0 {
		t.Errorf("phase rates should be zero with no phased sprints: %+v", r)
	}
	if !approx(r.SprintsPer90, 2.0) {
		t.Errorf("SprintsPer90: want 2.0, got %f", r.SprintsPer90)
	}
}

// ---- Off-ball run aggregation ----

func TestAggregateRuns(t *testing.T) {
	cfg := config.Default()
	roster := []model.PlayerMeta{
		makeMeta(101, 7, 45),
		makeMeta(102, 8, 45), // enough minutes, too few events
	}

	run := func(playerID int64, subtype string, xthreat float64, dangerous bool, overtaken float64) model.RunEvent {
		return model.RunEvent{MatchID: "m1", PlayerID: playerID, Subtype: subtype,
			XThreat: xthreat, Dangerous: dangerous, AvgSpeedKMH: 20, OpponentsOvertaken: overtaken}
	}
	runs := []model.RunEvent{
		run(101, "run_ahead", 0.1, true, 1),
		run(101, "run_ahead", 0.2, true, 2),
		run(101, "run_behind", 0.3, false, 3),
		run(101, "cross_receiver", 0.4, false, 4),
		run(102, "run_ahead", 0.5, true, 1),
		run(102, "run_ahead", 0.5, true, 1),
	}

	rows := AggregateRuns(runs, roster, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected only player 101 (102 has 2 < 3 events), got %d rows", len(rows))
	}
	r := rows[0]
	if r.RunCount != 4 {
		t.Errorf("RunCount: want 4, got %d", r.RunCount)
	}
	if !approx(r.AvgXThreat, 0.25) || !approx(r.MaxXThreat, 0.4) {
		t.Errorf("xthreat: want avg 0.25 / max 0.4, got %f / %f", r.AvgXThreat, r.MaxXThreat)
	}
	if !approx(r.DangerousPct, 0.5) {
		t.Errorf("DangerousPct: want 0.5, got %f", r.DangerousPct)
	}
	if !approx(r.RunsAheadPct, 0.5) || !approx(r.RunsBehindPct, 0.25) {
		t.Errorf("ahead/behind: want 0.5/0.25, got %f/%f", r.RunsAheadPct, r.RunsBehindPct)
	}
	if !approx(r.AvgRunSpeedKMH, 20) || !approx(r.AvgOpponentsBeaten, 2.5) {
		t.Errorf("speed/overtaken: want 20/2.5, got %f/%f", r.AvgRunSpeedKMH, r.AvgOpponentsBeaten)
	}
	if !approx(r.RunsPer90, 8.0) {
		t.Errorf("RunsPer90: want 8.0 (4 in 45 min), got %f", r.RunsPer90)
	}
	if !approx(r.DangerousRunsPer90, 4.0) {
		t.Errorf("DangerousRunsPer90: want 8.0 * 0.5 = 4.0, got %f", r.DangerousRunsPer90)
	}
	if !approx(r.ThreatPer90, 2.0) {
		t.Errorf("ThreatPer90: want 8.0 * 0.25 = 2.0, got %f", r.ThreatPer90)
	}
}

// ---- Pressing aggregation ----

func TestAggregatePressing(t *testing.T) {
	cfg := config.Default()
	roster := []model.PlayerMeta{
		makeMeta(101, 7, 45),
		makeMeta(104, 8, 20), // enough events, too few minutes
	}

	presses := []model.PressingEvent{
		{MatchID: "m1", PlayerID: 101, Subtype: "counter_press",
			DirectRegain: true, Successful: true, OutPossessionType: "high_block"},
		{MatchID: "m1", PlayerID: 101,
			IndirectRegain: true, Successful: true, LeadToShot: true, OutPossessionType: "medium_block"},
		{MatchID: "m1", PlayerID: 101,
			DirectDisruption: true, Successful: true, OutPossessionType: "low_block"},
		{MatchID: "m1", PlayerID: 101},
		{MatchID: "m1", PlayerID: 104, DirectRegain: true, Successful: true},
		{MatchID: "m1", PlayerID: 104, DirectRegain: true, Successful: true},
		{MatchID: "m1", PlayerID: 104, DirectRegain: true, Successful: true},
	}

	rows := AggregatePressing(presses, roster, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected only player 101, got %d rows", len(rows))
	}
	r := rows[0]
	if r.PressCount != 4 {
		t.Errorf("PressCount: want 4, got %d", r.PressCount)
	}
	if r.DirectRegains != 1 || r.IndirectRegains != 1 || r.Regains != 2 {
		t.Errorf("regains: want 1/1/2, got %d/%d/%d", r.DirectRegains, r.IndirectRegains, r.Regains)
	}
	if r.Disruptions != 1 || r.Successes != 3 || r.ShotsForced != 1 || r.GoalsForced != 0 {
		t.Errorf("outcomes: got disruptions=%d successes=%d shots=%d goals=%d",
			r.Disruptions, r.Successes, r.ShotsForced, r.GoalsForced)
	}
	if !approx(r.RegainRate, 0.5) || !approx(r.DisruptRate, 0.25) ||
		!approx(r.SuccessRate, 0.75) || !approx(r.ShotRate, 0.25) {
		t.Errorf("rates: got regain=%f disrupt=%f success=%f shot=%f",
			r.RegainRate, r.DisruptRate, r.SuccessRate, r.ShotRate)
	}
	if r.HighBlockCount != 1 || r.MediumBlockCount != 1 || r.LowBlockCount != 1 {
		t.Errorf("blocks: want 1/1/1, got %d/%d/%d",
			r.HighBlockCount, r.MediumBlockCount, r.LowBlockCount)
	}
	if r.CounterPresses != 1 {
		t.Errorf("CounterPresses: want 1, got %d", r.CounterPresses)
	}
	if !approx(r.PressesPer90, 8.0) || !approx(r.RegainsPer90, 4.0) ||
		!approx(r.SuccessesPer90, 6.0) || !approx(r.CounterPressesPer90, 2.0) {
		t.Errorf("per-90s: got presses=%f regains=%f successes=%f counter=%f",
			r.PressesPer90, r.RegainsPer90, r.SuccessesPer90, r.CounterPressesPer90)
	}
}

// TestAggregateUnknownPlayer: events for a player missing from the roster
// never produce a row.
func TestAggregateUnknownPlayer(t *testing.T) {
	cfg := config.Default()
	roster := []model.PlayerMeta{makeMeta(101, 7, 90)}
	runs := []model.RunEvent{
		{MatchID: "m1", PlayerID: 999, Subtype: "run_ahead"},
		{MatchID: "m1", PlayerID: 999, Subtype: "run_ahead"},
		{MatchID: "m1", PlayerID: 999, Subtype: "run_ahead"},
	}
	if rows := AggregateRuns(runs, roster, cfg); len(rows) != 0 {
		t.Errorf("expected no rows for an unrostered player, got %d", len(rows))
	}
}
