// Package metrics rolls raw per-player events into per-90-normalized
// player-match metric rows for the three behavioral families (sprints,
// off-ball runs, pressing) and combines them onto the match roster.
package metrics

import (
	"sort"

	"github.com/traitlab/pitchmetrics/internal/config"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/phase"
)

// per90 scales a raw per-match quantity to a 90-minute basis. Callers must
// guard minutes > 0 before calling.
func per90(raw, minutes float64) float64 {
	return raw * 90 / minutes
}

// ratio returns num/den as a proportion, 0 when there is no denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func rosterIndex(roster []model.PlayerMeta) map[int64]model.PlayerMeta {
	idx := make(map[int64]model.PlayerMeta, len(roster))
	for _, p := range roster {
		idx[p.PlayerID] = p
	}
	return idx
}

// AggregateSprints groups enriched sprints by player and emits one
// SprintMetrics row per player passing the minutes filter. Phase-derived
// proportions use only sprints that resolved to a phase as denominator;
// unphased sprints still count toward volume.
func AggregateSprints(sprints []phase.Enriched[model.SprintEvent], roster []model.PlayerMeta, cfg *config.Config) []model.SprintMetrics {
	type accum struct {
		count       int
		sumDistance float64
		sumAvg      float64
		sumPeak     float64

		phased         int
		highValue      int
		attacking      int
		defensive      int
		shotPossession int
		goalPossession int
		attackingThird int
	}

	meta := rosterIndex(roster)
	highValueSet := cfg.HighValuePhaseSet()

	accums := make(map[int64]*accum)
	for _, es := range sprints {
		s := es.Event
		acc := accums[s.PlayerID]
		if acc == nil {
			acc = &accum{}
			accums[s.PlayerID] = acc
		}
		acc.count++
		acc.sumDistance += s.DistanceM
		acc.sumAvg += s.AvgSpeedKMH
		acc.sumPeak += s.MaxSpeedKMH

		p := es.Phase
		if p == nil {
			continue
		}
		acc.phased++
		if es.HighValue(highValueSet) {
			acc.highValue++
		}
		if pm, ok := meta[s.PlayerID]; ok {
			if pm.TeamID == p.TeamInPossessionID {
				acc.attacking++
			} else {
				acc.defensive++
			}
		}
		if p.LeadToShot {
			acc.shotPossession++
		}
		if p.LeadToGoal {
			acc.goalPossession++
		}
		if p.ThirdEnd == "attacking_third" {
			acc.attackingThird++
		}
	}

	var out []model.SprintMetrics
	for playerID, acc := range accums {
		pm, ok := meta[playerID]
		if !ok || pm.MinutesPlayed <= 0 {
			continue // no minutes, no rate
		}
		if pm.MinutesPlayed < cfg.MinMinutesSprints {
			continue
		}

		row := model.SprintMetrics{
			MatchID:       pm.MatchID,
			PlayerID:      playerID,
			MinutesPlayed: pm.MinutesPlayed,

			SprintCount: acc.count,
			PhasedCount: acc.phased,

			SprintDistanceM: acc.sumDistance,
			AvgSpeedKMH:     acc.sumAvg / float64(acc.count),
			MaxSpeedKMH:     acc.sumPeak / float64(acc.count),

			SprintsPer90:        per90(float64(acc.count), pm.MinutesPlayed),
			SprintDistancePer90: per90(acc.sumDistance, pm.MinutesPlayed),

			HighValuePct:      ratio(acc.highValue, acc.phased),
			AttackingPct:      ratio(acc.attacking, acc.phased),
			DefensivePct:      ratio(acc.defensive, acc.phased),
			ShotPossessionPct: ratio(acc.shotPossession, acc.phased),
			GoalPossessionPct: ratio(acc.goalPossession, acc.phased),
			AttackingThirdPct: ratio(acc.attackingThird, acc.phased),
		}
		// Composite: independent rate × independent proportion.
		row.HighValueSprintsPer90 = row.SprintsPer90 * row.HighValuePct
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// AggregateRuns groups off-ball runs by player and emits one RunMetrics
// row per player passing the minutes and minimum-event filters.
func AggregateRuns(runs []model.RunEvent, roster []model.PlayerMeta, cfg *config.Config) []model.RunMetrics {
	type accum struct {
		count         int
		sumThreat     float64
		maxThreat     float64
		dangerous     int
		sumSpeed      float64
		sumOvertaken  float64
		ahead, behind int
	}

	meta := rosterIndex(roster)

	accums := make(map[int64]*accum)
	for _, r := range runs {
		acc := accums[r.PlayerID]
		if acc == nil {
			acc = &accum{}
			accums[r.PlayerID] = acc
		}
		acc.count++
		acc.sumThreat += r.XThreat
		if r.XThreat > acc.maxThreat {
			acc.maxThreat = r.XThreat
		}
		if r.Dangerous {
			acc.dangerous++
		}
		acc.sumSpeed += r.AvgSpeedKMH
		acc.sumOvertaken += r.OpponentsOvertaken
		switch r.Subtype {
		case "run_ahead":
			acc.ahead++
		case "run_behind":
			acc.behind++
		}
	}

	var out []model.RunMetrics
	for playerID, acc := range accums {
		pm, ok := meta[playerID]
		if !ok || pm.MinutesPlayed <= 0 {
			continue
		}
		if pm.MinutesPlayed < cfg.MinMinutesRuns || acc.count < cfg.MinRunEvents {
			continue
		}

		row := model.RunMetrics{
			MatchID:       pm.MatchID,
			PlayerID:      playerID,
			MinutesPlayed: pm.MinutesPlayed,

			RunCount: acc.count,

			AvgXThreat: acc.sumThreat / float64(acc.count),
			MaxXThreat: acc.maxThreat,

			DangerousPct:       ratio(acc.dangerous, acc.count),
			AvgRunSpeedKMH:     acc.sumSpeed / float64(acc.count),
			AvgOpponentsBeaten: acc.sumOvertaken / float64(acc.count),
			RunsAheadPct:       ratio(acc.ahead, acc.count),
			RunsBehindPct:      ratio(acc.behind, acc.count),

			RunsPer90: per90(float64(acc.count), pm.MinutesPlayed),
		}
		row.DangerousRunsPer90 = row.RunsPer90 * row.DangerousPct
		row.ThreatPer90 = row.RunsPer90 * row.AvgXThreat
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// AggregatePressing groups pressing actions by player and emits one
// PressMetrics row per player passing the minutes and minimum-event
// filters. Outcome labels (regain, disruption, success) are vendor-derived
// and consumed as-is.
func AggregatePressing(presses []model.PressingEvent, roster []model.PlayerMeta, cfg *config.Config) []model.PressMetrics {
	type accum struct {
		count int

		directRegain   int
		indirectRegain int
		regain         int
		disruption     int
		success        int
		shot           int
		goal           int

		highBlock    int
		mediumBlock  int
		lowBlock     int
		counterPress int
	}

	meta := rosterIndex(roster)

	accums := make(map[int64]*accum)
	for _, p := range presses {
		acc := accums[p.PlayerID]
		if acc == nil {
			acc = &accum{}
			accums[p.PlayerID] = acc
		}
		acc.count++
		if p.DirectRegain {
			acc.directRegain++
		}
		if p.IndirectRegain {
			acc.indirectRegain++
		}
		if p.Regain() {
			acc.regain++
		}
		if p.Disruption() {
			acc.disruption++
		}
		if p.Successful {
			acc.success++
		}
		if p.LeadToShot {
			acc.shot++
		}
		if p.LeadToGoal {
			acc.goal++
		}
		switch p.OutPossessionType {
		case "high_block":
			acc.highBlock++
		case "medium_block":
			acc.mediumBlock++
		case "low_block":
			acc.lowBlock++
		}
		if p.Subtype == "counter_press" {
			acc.counterPress++
		}
	}

	var out []model.PressMetrics
	for playerID, acc := range accums {
		pm, ok := meta[playerID]
		if !ok || pm.MinutesPlayed <= 0 {
			continue
		}
		if pm.MinutesPlayed < cfg.MinMinutesPressing || acc.count < cfg.MinPressEvents {
			continue
		}

		out = append(out, model.PressMetrics{
			MatchID:       pm.MatchID,
			PlayerID:      playerID,
			MinutesPlayed: pm.MinutesPlayed,

			PressCount: acc.count,

			DirectRegains:   acc.directRegain,
			IndirectRegains: acc.indirectRegain,
			Regains:         acc.regain,
			Disruptions:     acc.disruption,
			Successes:       acc.success,
			ShotsForced:     acc.shot,
			GoalsForced:     acc.goal,

			RegainRate:  ratio(acc.regain, acc.count),
			DisruptRate: ratio(acc.disruption, acc.count),
			SuccessRate: ratio(acc.success, acc.count),
			ShotRate:    ratio(acc.shot, acc.count),

			HighBlockCount:   acc.highBlock,
			MediumBlockCount: acc.mediumBlock,
			LowBlockCount:    acc.lowBlock,
			CounterPresses:   acc.counterPress,

			PressesPer90:        per90(float64(acc.count), pm.MinutesPlayed),
			RegainsPer90:        per90(float64(acc.regain), pm.MinutesPlayed),
			SuccessesPer90:      per90(float64(acc.success), pm.MinutesPlayed),
			CounterPressesPer90: per90(float64(acc.counterPress), pm.MinutesPlayed),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
