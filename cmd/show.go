package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/metrics"
	"github.com/traitlab/pitchmetrics/internal/model"
	"github.com/traitlab/pitchmetrics/internal/report"
	"github.com/traitlab/pitchmetrics/internal/storage"
)

var showPlayerID int64

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show stored match metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showPlayerID, "player", 0, "highlight player id")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showByID(db, args[0], showPlayerID)
}

// showByID reloads a stored match and re-renders the report tables. The
// combined table is rebuilt with the same combiner the process path uses,
// so stored and freshly computed output stay identical.
func showByID(db *storage.DB, matchID string, focusID int64) error {
	summary, err := db.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match stored with id %q\n", matchID)
		return nil
	}

	roster, err := db.GetRoster(matchID)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}
	sprintRows, err := db.GetSprintMetrics(matchID)
	if err != nil {
		return fmt.Errorf("get sprint metrics: %w", err)
	}
	runRows, err := db.GetRunMetrics(matchID)
	if err != nil {
		return fmt.Errorf("get run metrics: %w", err)
	}
	pressRows, err := db.GetPressMetrics(matchID)
	if err != nil {
		return fmt.Errorf("get press metrics: %w", err)
	}

	names := rosterNames(roster)
	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintCombinedTable(os.Stdout, metrics.Combine(roster, sprintRows, runRows, pressRows), focusID)
	report.PrintSprintTable(os.Stdout, sprintRows, names, focusID)
	report.PrintRunTable(os.Stdout, runRows, names, focusID)
	report.PrintPressTable(os.Stdout, pressRows, names, focusID)
	return nil
}

func rosterNames(roster []model.PlayerMeta) map[int64]string {
	names := make(map[int64]string, len(roster))
	for _, p := range roster {
		names[p.PlayerID] = p.ShortName
	}
	return names
}
