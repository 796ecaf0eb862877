package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/report"
	"github.com/traitlab/pitchmetrics/internal/storage"
)

// playerCmd is the cobra command for cross-match views of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <player-id> [<player-id>...]",
	Short: "Cross-match metric history for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

// runPlayer loads every stored family row for each given player id and
// prints a per-match history table. All three families are outer-merged on
// match id, so a match where only pressing qualified still shows a line.
func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	for _, arg := range args {
		playerID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", arg, err)
		}

		sprints, err := db.GetPlayerSprintHistory(playerID)
		if err != nil {
			return fmt.Errorf("sprint history for %d: %w", playerID, err)
		}
		runs, err := db.GetPlayerRunHistory(playerID)
		if err != nil {
			return fmt.Errorf("run history for %d: %w", playerID, err)
		}
		presses, err := db.GetPlayerPressHistory(playerID)
		if err != nil {
			return fmt.Errorf("press history for %d: %w", playerID, err)
		}

		rows := mergeHistory(sprints, runs, presses)
		if len(rows) == 0 {
			fmt.Fprintf(os.Stderr, "No stored metrics for player %d\n", playerID)
			continue
		}

		name, err := db.PlayerName(playerID)
		if err != nil {
			return fmt.Errorf("player name for %d: %w", playerID, err)
		}
		report.PrintPlayerHistory(os.Stdout, name, playerID, rows)
	}
	return nil
}

// mergeHistory outer-joins the three family histories on match id.
func mergeHistory(sprints []model.SprintMetrics, runs []model.RunMetrics, presses []model.PressMetrics) []report.PlayerHistoryRow {
	byMatch := make(map[string]*report.PlayerHistoryRow)
	get := func(matchID string, minutes float64) *report.PlayerHistoryRow {
		r := byMatch[matchID]
		if r == nil {
			r = &report.PlayerHistoryRow{MatchID: matchID}
			byMatch[matchID] = r
		}
		if r.MinutesPlayed == 0 {
			r.MinutesPlayed = minutes
		}
		return r
	}

	for i := range sprints {
		get(sprints[i].MatchID, sprints[i].MinutesPlayed).Sprints = &sprints[i]
	}
	for i := range runs {
		get(runs[i].MatchID, runs[i].MinutesPlayed).Runs = &runs[i]
	}
	for i := range presses {
		get(presses[i].MatchID, presses[i].MinutesPlayed).Pressing = &presses[i]
	}

	out := make([]report.PlayerHistoryRow, 0, len(byMatch))
	for _, r := range byMatch {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}
