package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/metrics"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/storage"
)

var (
	exportOut   string
	exportMatch string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the combined player-match table as CSV",
	Long: `Rebuilds the combined wide table (roster outer-joined with the sprint,
off-ball run, and pressing family tables) for every stored match, or one
match with --match, and writes it as CSV for spreadsheets and notebooks.
Every roster player appears exactly once per match; family columns are
empty where the player produced no qualifying row.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportMatch, "match", "", "limit export to one match id")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var matchIDs []string
	if exportMatch != "" {
		matchIDs = []string{exportMatch}
	} else {
		matches, err := db.ListMatches()
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		for _, m := range matches {
			matchIDs = append(matchIDs, m.MatchID)
		}
	}
	if len(matchIDs) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to export: no matches stored.")
		return nil
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(exportHeader()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	total := 0
	for _, matchID := range matchIDs {
		roster, err := db.GetRoster(matchID)
		if err != nil {
			return fmt.Errorf("get roster for %s: %w", matchID, err)
		}
		sprintRows, err := db.GetSprintMetrics(matchID)
		if err != nil {
			return fmt.Errorf("get sprint metrics for %s: %w", matchID, err)
		}
		runRows, err := db.GetRunMetrics(matchID)
		if err != nil {
			return fmt.Errorf("get run metrics for %s: %w", matchID, err)
		}
		pressRows, err := db.GetPressMetrics(matchID)
		if err != nil {
			return fmt.Errorf("get press metrics for %s: %w", matchID, err)
		}

		for _, row := range metrics.Combine(roster, sprintRows, runRows, pressRows) {
			if err := w.Write(exportRecord(row)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			total++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", total, exportOut)
	}
	return nil
}

func exportHeader() []string {
	return []string{
		"match_id", "player_id", "short_name", "team_id", "team_name", "position_group", "minutes_played",
		"sprint_count", "sprints_per_90", "sprint_distance_m", "sprint_distance_per_90",
		"avg_sprint_speed_kmh", "max_sprint_speed_kmh",
		"high_value_sprint_pct", "attacking_sprint_pct", "shot_possession_pct",
		"attacking_third_pct", "high_value_sprints_per_90",
		"run_count", "runs_per_90", "avg_xthreat", "max_xthreat", "threat_per_90",
		"dangerous_run_pct", "dangerous_runs_per_90",
		"press_count", "presses_per_90", "regain_rate", "disrupt_rate", "success_rate",
		"regains_per_90", "counter_presses_per_90",
	}
}

func exportRecord(r model.CombinedRow) []string {
	rec := []string{
		r.MatchID,
		strconv.FormatInt(r.PlayerID, 10),
		r.ShortName,
		strconv.FormatInt(r.TeamID, 10),
		r.TeamName,
		r.PositionGroup,
		formatFloat(r.MinutesPlayed),
	}
	if s := r.Sprints; s != nil {
		rec = append(rec,
			strconv.Itoa(s.SprintCount), formatFloat(s.SprintsPer90),
			formatFloat(s.SprintDistanceM), formatFloat(s.SprintDistancePer90),
			formatFloat(s.AvgSpeedKMH), formatFloat(s.MaxSpeedKMH),
			formatFloat(s.HighValuePct), formatFloat(s.AttackingPct),
			formatFloat(s.ShotPossessionPct), formatFloat(s.AttackingThirdPct),
			formatFloat(s.HighValueSprintsPer90),
		)
	} else {
		rec = append(rec, blanks(11)...)
	}
	if ru := r.Runs; ru != nil {
		rec = append(rec,
			strconv.Itoa(ru.RunCount), formatFloat(ru.RunsPer90),
			formatFloat(ru.AvgXThreat), formatFloat(ru.MaxXThreat), formatFloat(ru.ThreatPer90),
			formatFloat(ru.DangerousPct), formatFloat(ru.DangerousRunsPer90),
		)
	} else {
		rec = append(rec, blanks(7)...)
	}
	if p := r.Pressing; p != nil {
		rec = append(rec,
			strconv.Itoa(p.PressCount), formatFloat(p.PressesPer90),
			formatFloat(p.RegainRate), formatFloat(p.DisruptRate), formatFloat(p.SuccessRate),
			formatFloat(p.RegainsPer90), formatFloat(p.CounterPressesPer90),
		)
	} else {
		rec = append(rec, blanks(7)...)
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func blanks(n int) []string {
	return make([]string, n)
}
