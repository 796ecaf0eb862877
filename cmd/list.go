package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traitlab/pitchmetrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'pitchmetrics process <match-dir>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-22s  %-30s  %5s\n",
		"MATCH", "DATE", "COMPETITION", "FIXTURE", "SCORE")
	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-22s  %-30s  %5s\n",
		"──────────", "──────────", "──────────────────────", "──────────────────────────────", "─────")
	for _, m := range matches {
		fixture := fmt.Sprintf("%s v %s", m.HomeTeam, m.AwayTeam)
		score := fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-22s  %-30s  %5s\n",
			m.MatchID, m.MatchDate, m.Competition, fixture, score)
	}
	return nil
}
