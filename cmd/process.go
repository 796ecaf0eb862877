package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/ingest"
	"github.com/traitlab/pitchmetrics/internal/metrics"
	"github.com/traitlab/pitchmetrics/internal/report"
	"github.com/traitlab/pitchmetrics/internal/storage"
)

var (
	focusPlayerID int64
	processForce  bool
)

var processCmd = &cobra.Command{
	Use:   "process <match-dir>",
	Short: "Ingest a match directory, compute metrics, and store them",
	Long: `Reads a per-match data directory (match.json, tracking.jsonl, phases.csv,
dynamic_events.csv), detects sprints from the tracking signal, aggregates the
sprint / off-ball run / pressing families to per-90 player-match rows, and
stores everything in the local database.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Int64Var(&focusPlayerID, "player", 0, "highlight player id in output tables")
	processCmd.Flags().BoolVar(&processForce, "force", false, "recompute even if the match is already stored")
}

func runProcess(cmd *cobra.Command, args []string) error {
	matchDir := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Ingesting %s...\n", matchDir)
	data, err := ingest.LoadMatch(matchDir)
	if err != nil {
		return fmt.Errorf("ingest match: %w", err)
	}

	if !processForce {
		exists, err := db.MatchExists(data.Summary.MatchID)
		if err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if exists {
			fmt.Fprintf(os.Stdout, "Match %s already stored, showing cached results.\n", data.Summary.MatchID)
			return showByID(db, data.Summary.MatchID, focusPlayerID)
		}
	}

	result, err := metrics.Compute(data, cfg)
	if err != nil {
		return fmt.Errorf("compute metrics: %w", err)
	}

	if err := db.InsertMatch(data.Summary); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertRoster(data.Roster); err != nil {
		return fmt.Errorf("insert roster: %w", err)
	}
	if err := db.InsertSprintEvents(result.Sprints); err != nil {
		return fmt.Errorf("insert sprint events: %w", err)
	}
	if err := db.InsertSprintMetrics(result.SprintRows); err != nil {
		return fmt.Errorf("insert sprint metrics: %w", err)
	}
	if err := db.InsertRunMetrics(result.RunRows); err != nil {
		return fmt.Errorf("insert run metrics: %w", err)
	}
	if err := db.InsertPressMetrics(result.PressRows); err != nil {
		return fmt.Errorf("insert press metrics: %w", err)
	}

	names := rosterNames(data.Roster)
	report.PrintMatchSummary(os.Stdout, data.Summary)
	report.PrintCombinedTable(os.Stdout, result.Combined, focusPlayerID)
	report.PrintSprintTable(os.Stdout, result.SprintRows, names, focusPlayerID)
	report.PrintRunTable(os.Stdout, result.RunRows, names, focusPlayerID)
	report.PrintPressTable(os.Stdout, result.PressRows, names, focusPlayerID)
	return nil
}
