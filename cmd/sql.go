package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, match_date, competition, home_team, away_team, home_score, away_score, fps)
  roster(match_id, player_id, short_name, team_id, team_name, shirt_number,
    position_group, role_name, minutes_played, started)
  sprint_events(match_id, player_id, period, start_frame, end_frame, mid_frame,
    duration_s, distance_m, avg_speed_kmh, max_speed_kmh)
  sprint_metrics(match_id, player_id, minutes_played, sprint_count, sprints_per_90,
    sprint_distance_per_90, high_value_pct, attacking_pct, ...)
  run_metrics(match_id, player_id, run_count, runs_per_90, avg_xthreat, threat_per_90, ...)
  press_metrics(match_id, player_id, press_count, presses_per_90, regain_rate,
    success_rate, counter_presses_per_90, ...)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
