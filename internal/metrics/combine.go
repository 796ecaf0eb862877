package metrics

import (
	"sort"

	"github.com/traitlab/pitchmetrics/internal/model"
)

// Combine outer-joins the three family tables onto the full roster. Every
// roster player appears exactly once; a player with no qualifying events
// in a family gets a nil block, never a dropped row. Output is ordered by
// (team, player id) for stable rendering and export.
func Combine(roster []model.PlayerMeta, sprints []model.SprintMetrics, runs []model.RunMetrics, presses []model.PressMetrics) []model.CombinedRow {
	sprintByPlayer := make(map[int64]*model.SprintMetrics, len(sprints))
	for i := range sprints {
		sprintByPlayer[sprints[i].PlayerID] = &sprints[i]
	}
	runByPlayer := make(map[int64]*model.RunMetrics, len(runs))
	for i := range runs {
		runByPlayer[runs[i].PlayerID] = &runs[i]
	}
	pressByPlayer := make(map[int64]*model.PressMetrics, len(presses))
	for i := range presses {
		pressByPlayer[presses[i].PlayerID] = &presses[i]
	}

	out := make([]model.CombinedRow, 0, len(roster))
	for _, p := range roster {
		out = append(out, model.CombinedRow{
			MatchID:       p.MatchID,
			PlayerID:      p.PlayerID,
			ShortName:     p.ShortName,
			TeamID:        p.TeamID,
			TeamName:      p.TeamName,
			PositionGroup: p.PositionGroup,
			MinutesPlayed: p.MinutesPlayed,
			Sprints:       sprintByPlayer[p.PlayerID],
			Runs:          runByPlayer[p.PlayerID],
			Pressing:      pressByPlayer[p.PlayerID],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
