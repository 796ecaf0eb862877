package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/traitlab/pitchmetrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\n%s %d – %d %s  |  Date: %s  |  %s  |  Match: %s  |  %.0f Hz\n\n",
		s.HomeTeam, s.HomeScore, s.AwayScore, s.AwayTeam,
		s.MatchDate, s.Competition, s.MatchID, s.FPS)
}

// PrintCombinedTable prints the full player-match table: one row per roster
// player, with "—" where a family produced no qualifying row. If
// focusPlayerID is non-zero, that player's row is marked with ">".
func PrintCombinedTable(w io.Writer, rows []model.CombinedRow, focusPlayerID int64) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "TEAM", "POS", "MIN",
		"SPR/90", "SPR_DIST/90", "HV_SPR%",
		"RUNS/90", "xT/90", "DNG%",
		"PRESS/90", "REGAIN%", "SUCC%",
	)

	for _, r := range rows {
		marker := " "
		if focusPlayerID != 0 && r.PlayerID == focusPlayerID {
			marker = ">"
		}

		spr90, sprDist90, hvPct := "—", "—", "—"
		if r.Sprints != nil {
			spr90 = fmt.Sprintf("%.1f", r.Sprints.SprintsPer90)
			sprDist90 = fmt.Sprintf("%.0fm", r.Sprints.SprintDistancePer90)
			hvPct = fmt.Sprintf("%.0f%%", r.Sprints.HighValuePct*100)
		}
		runs90, threat90, dngPct := "—", "—", "—"
		if r.Runs != nil {
			runs90 = fmt.Sprintf("%.1f", r.Runs.RunsPer90)
			threat90 = fmt.Sprintf("%.3f", r.Runs.ThreatPer90)
			dngPct = fmt.Sprintf("%.0f%%", r.Runs.DangerousPct*100)
		}
		press90, regainPct, succPct := "—", "—", "—"
		if r.Pressing != nil {
			press90 = fmt.Sprintf("%.1f", r.Pressing.PressesPer90)
			regainPct = fmt.Sprintf("%.0f%%", r.Pressing.RegainRate*100)
			succPct = fmt.Sprintf("%.0f%%", r.Pressing.SuccessRate*100)
		}

		table.Append(
			marker,
			r.ShortName,
			r.TeamName,
			r.PositionGroup,
			fmt.Sprintf("%.0f", r.MinutesPlayed),
			spr90, sprDist90, hvPct,
			runs90, threat90, dngPct,
			press90, regainPct, succPct,
		)
	}
	table.Render()
}

// PrintSprintTable prints the sprint family detail table.
func PrintSprintTable(w io.Writer, rows []model.SprintMetrics, names map[int64]string, focusPlayerID int64) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "MIN", "SPRINTS", "SPR/90", "DIST", "DIST/90",
		"AVG_KMH", "PEAK_KMH", "HV%", "ATT%", "SHOT_POSS%", "ATT_3RD%", "HV_SPR/90",
	)
	for _, s := range rows {
		marker := " "
		if focusPlayerID != 0 && s.PlayerID == focusPlayerID {
			marker = ">"
		}
		table.Append(
			marker,
			playerLabel(names, s.PlayerID),
			fmt.Sprintf("%.0f", s.MinutesPlayed),
			strconv.Itoa(s.SprintCount),
			fmt.Sprintf("%.1f", s.SprintsPer90),
			fmt.Sprintf("%.0fm", s.SprintDistanceM),
			fmt.Sprintf("%.0fm", s.SprintDistancePer90),
			fmt.Sprintf("%.1f", s.AvgSpeedKMH),
			fmt.Sprintf("%.1f", s.MaxSpeedKMH),
			fmt.Sprintf("%.0f%%", s.HighValuePct*100),
			fmt.Sprintf("%.0f%%", s.AttackingPct*100),
			fmt.Sprintf("%.0f%%", s.ShotPossessionPct*100),
			fmt.Sprintf("%.0f%%", s.AttackingThirdPct*100),
			fmt.Sprintf("%.1f", s.HighValueSprintsPer90),
		)
	}
	table.Render()
}

// PrintRunTable prints the off-ball-run family detail table.
func PrintRunTable(w io.Writer, rows []model.RunMetrics, names map[int64]string, focusPlayerID int64) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "MIN", "RUNS", "RUNS/90", "AVG_xT", "MAX_xT",
		"xT/90", "DNG%", "DNG/90", "SPEED", "BEATEN", "AHEAD%", "BEHIND%",
	)
	for _, r := range rows {
		marker := " "
		if focusPlayerID != 0 && r.PlayerID == focusPlayerID {
			marker = ">"
		}
		table.Append(
			marker,
			playerLabel(names, r.PlayerID),
			fmt.Sprintf("%.0f", r.MinutesPlayed),
			strconv.Itoa(r.RunCount),
			fmt.Sprintf("%.1f", r.RunsPer90),
			fmt.Sprintf("%.3f", r.AvgXThreat),
			fmt.Sprintf("%.3f", r.MaxXThreat),
			fmt.Sprintf("%.3f", r.ThreatPer90),
			fmt.Sprintf("%.0f%%", r.DangerousPct*100),
			fmt.Sprintf("%.1f", r.DangerousRunsPer90),
			fmt.Sprintf("%.1f", r.AvgRunSpeedKMH),
			fmt.Sprintf("%.1f", r.AvgOpponentsBeaten),
			fmt.Sprintf("%.0f%%", r.RunsAheadPct*100),
			fmt.Sprintf("%.0f%%", r.RunsBehindPct*100),
		)
	}
	table.Render()
}

// PrintPressTable prints the pressing family detail table.
func PrintPressTable(w io.Writer, rows []model.PressMetrics, names map[int64]string, focusPlayerID int64) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "MIN", "PRESSES", "PRESS/90", "REGAIN%", "DISRUPT%",
		"SUCC%", "REGAINS/90", "SUCC/90", "HIGH", "MED", "LOW", "COUNTER/90",
	)
	for _, p := range rows {
		marker := " "
		if focusPlayerID != 0 && p.PlayerID == focusPlayerID {
			marker = ">"
		}
		table.Append(
			marker,
			playerLabel(names, p.PlayerID),
			fmt.Sprintf("%.0f", p.MinutesPlayed),
			strconv.Itoa(p.PressCount),
			fmt.Sprintf("%.1f", p.PressesPer90),
			fmt.Sprintf("%.0f%%", p.RegainRate*100),
			fmt.Sprintf("%.0f%%", p.DisruptRate*100),
			fmt.Sprintf("%.0f%%", p.SuccessRate*100),
			fmt.Sprintf("%.1f", p.RegainsPer90),
			fmt.Sprintf("%.1f", p.SuccessesPer90),
			strconv.Itoa(p.HighBlockCount),
			strconv.Itoa(p.MediumBlockCount),
			strconv.Itoa(p.LowBlockCount),
			fmt.Sprintf("%.1f", p.CounterPressesPer90),
		)
	}
	table.Render()
}

// PlayerHistoryRow is one match line in the cross-match player view,
// assembled by the player command from the three family histories.
type PlayerHistoryRow struct {
	MatchID       string
	MinutesPlayed float64
	Sprints       *model.SprintMetrics
	Runs          *model.RunMetrics
	Pressing      *model.PressMetrics
}

// PrintPlayerHistory prints one player's per-match metric history.
func PrintPlayerHistory(w io.Writer, name string, playerID int64, rows []PlayerHistoryRow) {
	fmt.Fprintf(w, "\nPlayer: %s (%d)  |  %d matches with stored metrics\n\n", name, playerID, len(rows))

	table := newTable(w)
	table.Header(
		"MATCH", "MIN", "SPR/90", "HV_SPR%", "RUNS/90", "xT/90", "PRESS/90", "REGAIN%",
	)
	for _, r := range rows {
		spr90, hvPct := "—", "—"
		if r.Sprints != nil {
			spr90 = fmt.Sprintf("%.1f", r.Sprints.SprintsPer90)
			hvPct = fmt.Sprintf("%.0f%%", r.Sprints.HighValuePct*100)
		}
		runs90, threat90 := "—", "—"
		if r.Runs != nil {
			runs90 = fmt.Sprintf("%.1f", r.Runs.RunsPer90)
			threat90 = fmt.Sprintf("%.3f", r.Runs.ThreatPer90)
		}
		press90, regainPct := "—", "—"
		if r.Pressing != nil {
			press90 = fmt.Sprintf("%.1f", r.Pressing.PressesPer90)
			regainPct = fmt.Sprintf("%.0f%%", r.Pressing.RegainRate*100)
		}
		table.Append(
			r.MatchID,
			fmt.Sprintf("%.0f", r.MinutesPlayed),
			spr90, hvPct, runs90, threat90, press90, regainPct,
		)
	}
	table.Render()
}

func playerLabel(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return strconv.FormatInt(id, 10)
}
