package storage

import (
	"database/sql"
	"fmt"

	"github.com/traitlab/pitchmetrics/internal/model"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MatchExists returns true if the match is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(s model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(match_id, match_date, competition, home_team, away_team, home_score, away_score, fps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.MatchID, s.MatchDate, s.Competition, s.HomeTeam, s.AwayTeam,
		s.HomeScore, s.AwayScore, s.FPS,
	)
	return err
}

// InsertRoster bulk-inserts roster rows in a transaction.
func (db *DB) InsertRoster(roster []model.PlayerMeta) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO roster(
			match_id, player_id, short_name, team_id, team_name,
			shirt_number, position_group, role_name, minutes_played, started
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range roster {
		_, err = stmt.Exec(
			p.MatchID, p.PlayerID, p.ShortName, p.TeamID, p.TeamName,
			p.ShirtNumber, p.PositionGroup, p.RoleName, p.MinutesPlayed, boolInt(p.Started),
		)
		if err != nil {
			return fmt.Errorf("insert roster row for %d: %w", p.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertSprintEvents bulk-inserts detected sprints in a transaction.
func (db *DB) InsertSprintEvents(events []model.SprintEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO sprint_events(
			match_id, player_id, period, start_frame, end_frame, mid_frame,
			duration_s, distance_m, avg_speed_kmh, max_speed_kmh
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err = stmt.Exec(
			e.MatchID, e.PlayerID, e.Period, e.StartFrame, e.EndFrame, e.MidFrame,
			e.DurationS, e.DistanceM, e.AvgSpeedKMH, e.MaxSpeedKMH,
		)
		if err != nil {
			return fmt.Errorf("insert sprint_events for %d: %w", e.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertSprintMetrics bulk-inserts the sprint family rows in a transaction.
func (db *DB) InsertSprintMetrics(rows []model.SprintMetrics) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO sprint_metrics(
			match_id, player_id, minutes_played,
			sprint_count, phased_count, sprint_distance_m, avg_speed_kmh, max_speed_kmh,
			sprints_per_90, sprint_distance_per_90,
			high_value_pct, attacking_pct, defensive_pct,
			shot_possession_pct, goal_possession_pct, attacking_third_pct,
			high_value_sprints_per_90
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		_, err = stmt.Exec(
			s.MatchID, s.PlayerID, s.MinutesPlayed,
			s.SprintCount, s.PhasedCount, s.SprintDistanceM, s.AvgSpeedKMH, s.MaxSpeedKMH,
			s.SprintsPer90, s.SprintDistancePer90,
			s.HighValuePct, s.AttackingPct, s.DefensivePct,
			s.ShotPossessionPct, s.GoalPossessionPct, s.AttackingThirdPct,
			s.HighValueSprintsPer90,
		)
		if err != nil {
			return fmt.Errorf("insert sprint_metrics for %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertRunMetrics bulk-inserts the off-ball-run family rows in a transaction.
func (db *DB) InsertRunMetrics(rows []model.RunMetrics) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO run_metrics(
			match_id, player_id, minutes_played,
			run_count, avg_xthreat, max_xthreat, dangerous_pct,
			avg_run_speed_kmh, avg_opponents_beaten, runs_ahead_pct, runs_behind_pct,
			runs_per_90, dangerous_runs_per_90, threat_per_90
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.MatchID, r.PlayerID, r.MinutesPlayed,
			r.RunCount, r.AvgXThreat, r.MaxXThreat, r.DangerousPct,
			r.AvgRunSpeedKMH, r.AvgOpponentsBeaten, r.RunsAheadPct, r.RunsBehindPct,
			r.RunsPer90, r.DangerousRunsPer90, r.ThreatPer90,
		)
		if err != nil {
			return fmt.Errorf("insert run_metrics for %d: %w", r.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertPressMetrics bulk-inserts the pressing family rows in a transaction.
func (db *DB) InsertPressMetrics(rows []model.PressMetrics) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO press_metrics(
			match_id, player_id, minutes_played,
			press_count, direct_regains, indirect_regains, regains,
			disruptions, successes, shots_forced, goals_forced,
			regain_rate, disrupt_rate, success_rate, shot_rate,
			high_block_count, medium_block_count, low_block_count, counter_presses,
			presses_per_90, regains_per_90, successes_per_90, counter_presses_per_90
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range rows {
		_, err = stmt.Exec(
			p.MatchID, p.PlayerID, p.MinutesPlayed,
			p.PressCount, p.DirectRegains, p.IndirectRegains, p.Regains,
			p.Disruptions, p.Successes, p.ShotsForced, p.GoalsForced,
			p.RegainRate, p.DisruptRate, p.SuccessRate, p.ShotRate,
			p.HighBlockCount, p.MediumBlockCount, p.LowBlockCount, p.CounterPresses,
			p.PressesPer90, p.RegainsPer90, p.SuccessesPer90, p.CounterPressesPer90,
		)
		if err != nil {
			return fmt.Errorf("insert press_metrics for %d: %w", p.PlayerID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, match_date, competition, home_team, away_team, home_score, away_score, fps
		FROM matches ORDER BY match_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.MatchDate, &s.Competition, &s.HomeTeam,
			&s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.FPS); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatch returns the stored summary for a match id, nil if absent.
func (db *DB) GetMatch(matchID string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT match_id, match_date, competition, home_team, away_team, home_score, away_score, fps
		FROM matches WHERE match_id = ?`, matchID).
		Scan(&s.MatchID, &s.MatchDate, &s.Competition, &s.HomeTeam,
			&s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.FPS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetRoster returns all roster rows for a match.
func (db *DB) GetRoster(matchID string) ([]model.PlayerMeta, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, player_id, short_name, team_id, team_name,
		       shirt_number, position_group, role_name, minutes_played, started
		FROM roster WHERE match_id = ? ORDER BY team_id, player_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMeta
	for rows.Next() {
		var p model.PlayerMeta
		var startedInt int
		if err := rows.Scan(&p.MatchID, &p.PlayerID, &p.ShortName, &p.TeamID, &p.TeamName,
			&p.ShirtNumber, &p.PositionGroup, &p.RoleName, &p.MinutesPlayed, &startedInt); err != nil {
			return nil, err
		}
		p.Started = startedInt != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

const sprintMetricsColumns = `
	match_id, player_id, minutes_played,
	sprint_count, phased_count, sprint_distance_m, avg_speed_kmh, max_speed_kmh,
	sprints_per_90, sprint_distance_per_90,
	high_value_pct, attacking_pct, defensive_pct,
	shot_possession_pct, goal_possession_pct, attacking_third_pct,
	high_value_sprints_per_90`

func scanSprintMetrics(rows *sql.Rows) ([]model.SprintMetrics, error) {
	defer rows.Close()
	var out []model.SprintMetrics
	for rows.Next() {
		var s model.SprintMetrics
		if err := rows.Scan(
			&s.MatchID, &s.PlayerID, &s.MinutesPlayed,
			&s.SprintCount, &s.PhasedCount, &s.SprintDistanceM, &s.AvgSpeedKMH, &s.MaxSpeedKMH,
			&s.SprintsPer90, &s.SprintDistancePer90,
			&s.HighValuePct, &s.AttackingPct, &s.DefensivePct,
			&s.ShotPossessionPct, &s.GoalPossessionPct, &s.AttackingThirdPct,
			&s.HighValueSprintsPer90,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSprintMetrics returns the sprint family rows for a match.
func (db *DB) GetSprintMetrics(matchID string) ([]model.SprintMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+sprintMetricsColumns+" FROM sprint_metrics WHERE match_id = ? ORDER BY player_id", matchID)
	if err != nil {
		return nil, err
	}
	return scanSprintMetrics(rows)
}

// GetPlayerSprintHistory returns a player's sprint rows across all matches.
func (db *DB) GetPlayerSprintHistory(playerID int64) ([]model.SprintMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+sprintMetricsColumns+" FROM sprint_metrics WHERE player_id = ? ORDER BY match_id", playerID)
	if err != nil {
		return nil, err
	}
	return scanSprintMetrics(rows)
}

const runMetricsColumns = `
	match_id, player_id, minutes_played,
	run_count, avg_xthreat, max_xthreat, dangerous_pct,
	avg_run_speed_kmh, avg_opponents_beaten, runs_ahead_pct, runs_behind_pct,
	runs_per_90, dangerous_runs_per_90, threat_per_90`

func scanRunMetrics(rows *sql.Rows) ([]model.RunMetrics, error) {
	defer rows.Close()
	var out []model.RunMetrics
	for rows.Next() {
		var r model.RunMetrics
		if err := rows.Scan(
			&r.MatchID, &r.PlayerID, &r.MinutesPlayed,
			&r.RunCount, &r.AvgXThreat, &r.MaxXThreat, &r.DangerousPct,
			&r.AvgRunSpeedKMH, &r.AvgOpponentsBeaten, &r.RunsAheadPct, &r.RunsBehindPct,
			&r.RunsPer90, &r.DangerousRunsPer90, &r.ThreatPer90,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunMetrics returns the off-ball-run family rows for a match.
func (db *DB) GetRunMetrics(matchID string) ([]model.RunMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+runMetricsColumns+" FROM run_metrics WHERE match_id = ? ORDER BY player_id", matchID)
	if err != nil {
		return nil, err
	}
	return scanRunMetrics(rows)
}

// GetPlayerRunHistory returns a player's run rows across all matches.
func (db *DB) GetPlayerRunHistory(playerID int64) ([]model.RunMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+runMetricsColumns+" FROM run_metrics WHERE player_id = ? ORDER BY match_id", playerID)
	if err != nil {
		return nil, err
	}
	return scanRunMetrics(rows)
}

const pressMetricsColumns = `
	match_id, player_id, minutes_played,
	press_count, direct_regains, indirect_regains, regains,
	disruptions, successes, shots_forced, goals_forced,
	regain_rate, disrupt_rate, success_rate, shot_rate,
	high_block_count, medium_block_count, low_block_count, counter_presses,
	presses_per_90, regains_per_90, successes_per_90, counter_presses_per_90`

func scanPressMetrics(rows *sql.Rows) ([]model.PressMetrics, error) {
	defer rows.Close()
	var out []model.PressMetrics
	for rows.Next() {
		var p model.PressMetrics
		if err := rows.Scan(
			&p.MatchID, &p.PlayerID, &p.MinutesPlayed,
			&p.PressCount, &p.DirectRegains, &p.IndirectRegains, &p.Regains,
			&p.Disruptions, &p.Successes, &p.ShotsForced, &p.GoalsForced,
			&p.RegainRate, &p.DisruptRate, &p.SuccessRate, &p.ShotRate,
			&p.HighBlockCount, &p.MediumBlockCount, &p.LowBlockCount, &p.CounterPresses,
			&p.PressesPer90, &p.RegainsPer90, &p.SuccessesPer90, &p.CounterPressesPer90,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPressMetrics returns the pressing family rows for a match.
func (db *DB) GetPressMetrics(matchID string) ([]model.PressMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+pressMetricsColumns+" FROM press_metrics WHERE match_id = ? ORDER BY player_id", matchID)
	if err != nil {
		return nil, err
	}
	return scanPressMetrics(rows)
}

// GetPlayerPressHistory returns a player's pressing rows across all matches.
func (db *DB) GetPlayerPressHistory(playerID int64) ([]model.PressMetrics, error) {
	rows, err := db.conn.Query(
		"SELECT"+pressMetricsColumns+" FROM press_metrics WHERE player_id = ? ORDER BY match_id", playerID)
	if err != nil {
		return nil, err
	}
	return scanPressMetrics(rows)
}

// GetSprintEvents returns all stored sprints for a match, in frame order.
func (db *DB) GetSprintEvents(matchID string) ([]model.SprintEvent, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, player_id, period, start_frame, end_frame, mid_frame,
		       duration_s, distance_m, avg_speed_kmh, max_speed_kmh
		FROM sprint_events WHERE match_id = ? ORDER BY period, start_frame`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SprintEvent
	for rows.Next() {
		var e model.SprintEvent
		if err := rows.Scan(&e.MatchID, &e.PlayerID, &e.Period, &e.StartFrame, &e.EndFrame,
			&e.MidFrame, &e.DurationS, &e.DistanceM, &e.AvgSpeedKMH, &e.MaxSpeedKMH); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PlayerName looks up a player's most recent short name across rosters.
func (db *DB) PlayerName(playerID int64) (string, error) {
	var name string
	err := db.conn.QueryRow(`
		SELECT short_name FROM roster WHERE player_id = ? ORDER BY match_id DESC LIMIT 1`,
		playerID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return name, err
}
