// Package ingest reads one match's data directory into memory. It checks
// shape only (required files, columns, and field types); vendor-derived
// values are consumed as-is. Any schema violation rejects the whole match.
package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/traitlab/pitchmetrics/internal/model"
)

// ErrSchema marks a required-column/field violation. The affected match is
// rejected outright, never partially processed.
var ErrSchema = errors.New("schema violation")

// Expected file names inside a match directory.
const (
	metaFile     = "match.json"
	trackingFile = "tracking.jsonl"
	phasesFile   = "phases.csv"
	eventsFile   = "dynamic_events.csv"
)

// LoadMatch reads the full per-match bundle from dir.
func LoadMatch(dir string) (*model.MatchData, error) {
	summary, roster, err := readMetadata(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", metaFile, err)
	}
	matchID := summary.MatchID

	tracking, err := readTracking(filepath.Join(dir, trackingFile), matchID)
	if err != nil {
		return nil, fmt.Errorf("match %s: read %s: %w", matchID, trackingFile, err)
	}
	phases, err := readPhases(filepath.Join(dir, phasesFile), matchID)
	if err != nil {
		return nil, fmt.Errorf("match %s: read %s: %w", matchID, phasesFile, err)
	}
	runs, presses, err := readEvents(filepath.Join(dir, eventsFile), matchID)
	if err != nil {
		return nil, fmt.Errorf("match %s: read %s: %w", matchID, eventsFile, err)
	}

	return &model.MatchData{
		Summary:  summary,
		Roster:   roster,
		Tracking: tracking,
		Phases:   phases,
		Runs:     runs,
		Presses:  presses,
	}, nil
}

// ---- match.json ----

type metaJSON struct {
	ID          json.Number  `json:"id"`
	Date        string       `json:"date"`
	Competition string       `json:"competition"`
	FPS         float64      `json:"fps"`
	HomeTeam    teamJSON     `json:"home_team"`
	AwayTeam    teamJSON     `json:"away_team"`
	HomeScore   int          `json:"home_team_score"`
	AwayScore   int          `json:"away_team_score"`
	Players     []playerJSON `json:"players"`
}

type teamJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type playerJSON struct {
	ID            int64  `json:"id"`
	ShortName     string `json:"short_name"`
	TeamID        int64  `json:"team_id"`
	Number        int    `json:"number"`
	PositionGroup string `json:"position_group"`
	RoleName      string `json:"role_name"`
	Started       bool   `json:"started"`
	PlayingTime   struct {
		Total struct {
			MinutesPlayed float64 `json:"minutes_played"`
		} `json:"total"`
	} `json:"playing_time"`
}

func readMetadata(path string) (model.MatchSummary, []model.PlayerMeta, error) {
	var none model.MatchSummary
	raw, err := os.ReadFile(path)
	if err != nil {
		return none, nil, err
	}
	var meta metaJSON
	if err := json.Unmarshal(raw, &meta); err != nil {
		return none, nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if meta.ID.String() == "" {
		return none, nil, fmt.Errorf("%w: missing match id", ErrSchema)
	}
	if len(meta.Players) == 0 {
		return none, nil, fmt.Errorf("%w: empty players list", ErrSchema)
	}

	fps := meta.FPS
	if fps == 0 {
		fps = 10 // tracking default when metadata omits it
	}
	matchID := meta.ID.String()
	summary := model.MatchSummary{
		MatchID:     matchID,
		MatchDate:   meta.Date,
		Competition: meta.Competition,
		HomeTeam:    meta.HomeTeam.Name,
		AwayTeam:    meta.AwayTeam.Name,
		HomeScore:   meta.HomeScore,
		AwayScore:   meta.AwayScore,
		FPS:         fps,
	}

	teamNames := map[int64]string{
		meta.HomeTeam.ID: meta.HomeTeam.Name,
		meta.AwayTeam.ID: meta.AwayTeam.Name,
	}
	roster := make([]model.PlayerMeta, 0, len(meta.Players))
	for _, p := range meta.Players {
		if p.ID == 0 {
			return none, nil, fmt.Errorf("%w: player without id", ErrSchema)
		}
		roster = append(roster, model.PlayerMeta{
			MatchID:       matchID,
			PlayerID:      p.ID,
			ShortName:     p.ShortName,
			TeamID:        p.TeamID,
			TeamName:      teamNames[p.TeamID],
			ShirtNumber:   p.Number,
			PositionGroup: p.PositionGroup,
			RoleName:      p.RoleName,
			MinutesPlayed: p.PlayingTime.Total.MinutesPlayed,
			Started:       p.Started,
		})
	}
	return summary, roster, nil
}

// ---- tracking.jsonl ----

type trackingLine struct {
	Frame      int     `json:"frame"`
	TimestampS float64 `json:"timestamp"`
	Period     int     `json:"period"`
	PlayerData []struct {
		PlayerID *int64   `json:"player_id"`
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Detected bool     `json:"is_detected"`
	} `json:"player_data"`
}

func readTracking(path, matchID string) ([]model.TrackingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []model.TrackingSample
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24) // tracking lines carry 22+ players
	lineNo := 0
	for sc.Scan() {
		lineNo++
		var line trackingLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, lineNo, err)
		}
		for _, pd := range line.PlayerData {
			if pd.PlayerID == nil || pd.X == nil || pd.Y == nil {
				continue // ball or undetected entry
			}
			out = append(out, model.TrackingSample{
				MatchID:    matchID,
				PlayerID:   *pd.PlayerID,
				Period:     line.Period,
				FrameIndex: line.Frame,
				TimestampS: line.TimestampS,
				X:          *pd.X,
				Y:          *pd.Y,
				Detected:   pd.Detected,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- CSV plumbing ----

// columns maps header names to indexes and fails fast on missing required
// columns.
type columns map[string]int

func readHeader(r *csv.Reader, required ...string) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrSchema, err)
	}
	cols := make(columns, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
	}
	return cols, nil
}

func (c columns) str(rec []string, name string) string {
	if i, ok := c[name]; ok && i < len(rec) {
		return rec[i]
	}
	return ""
}

func (c columns) intVal(rec []string, name string) (int, error) {
	s := c.str(rec, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q: %v", ErrSchema, name, err)
	}
	return v, nil
}

func (c columns) int64Val(rec []string, name string) (int64, error) {
	s := c.str(rec, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q: %v", ErrSchema, name, err)
	}
	return v, nil
}

func (c columns) floatVal(rec []string, name string) (float64, error) {
	s := c.str(rec, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q: %v", ErrSchema, name, err)
	}
	return v, nil
}

// boolVal accepts the spellings the vendor exports use for booleans.
func (c columns) boolVal(rec []string, name string) bool {
	switch c.str(rec, name) {
	case "True", "true", "TRUE", "1", "1.0":
		return true
	}
	return false
}

// ---- phases.csv ----

func readPhases(path, matchID string) ([]model.PhaseInterval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	cols, err := readHeader(r, "period", "frame_start", "frame_end",
		"team_in_possession_phase_type", "team_out_of_possession_phase_type",
		"team_in_possession_id")
	if err != nil {
		return nil, err
	}

	var out []model.PhaseInterval
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		period, err := cols.intVal(rec, "period")
		if err != nil {
			return nil, err
		}
		frameStart, err := cols.intVal(rec, "frame_start")
		if err != nil {
			return nil, err
		}
		frameEnd, err := cols.intVal(rec, "frame_end")
		if err != nil {
			return nil, err
		}
		teamID, err := cols.int64Val(rec, "team_in_possession_id")
		if err != nil {
			return nil, err
		}
		out = append(out, model.PhaseInterval{
			MatchID:            matchID,
			Period:             period,
			FrameStart:         frameStart,
			FrameEnd:           frameEnd,
			InPossessionType:   cols.str(rec, "team_in_possession_phase_type"),
			OutPossessionType:  cols.str(rec, "team_out_of_possession_phase_type"),
			TeamInPossessionID: teamID,
			LeadToShot:         cols.boolVal(rec, "team_possession_lead_to_shot"),
			LeadToGoal:         cols.boolVal(rec, "team_possession_lead_to_goal"),
			ThirdEnd:           cols.str(rec, "third_end"),
			ChannelEnd:         cols.str(rec, "channel_end"),
		})
	}
	return out, nil
}

// ---- dynamic_events.csv ----

// Event types carried through; everything else in the vendor export
// (passes, possessions, ...) is skipped.
const (
	eventTypeRun   = "off_ball_run"
	eventTypePress = "pressing"
)

func readEvents(path, matchID string) ([]model.RunEvent, []model.PressingEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // sparse vendor export: trailing blanks vary
	cols, err := readHeader(r, "event_id", "event_type", "player_id", "period", "frame_start")
	if err != nil {
		return nil, nil, err
	}

	var runs []model.RunEvent
	var presses []model.PressingEvent
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}

		eventID, err := cols.int64Val(rec, "event_id")
		if err != nil {
			return nil, nil, err
		}
		playerID, err := cols.int64Val(rec, "player_id")
		if err != nil {
			return nil, nil, err
		}
		period, err := cols.intVal(rec, "period")
		if err != nil {
			return nil, nil, err
		}
		frame, err := cols.intVal(rec, "frame_start")
		if err != nil {
			return nil, nil, err
		}

		switch cols.str(rec, "event_type") {
		case eventTypeRun:
			xthreat, err := cols.floatVal(rec, "xthreat")
			if err != nil {
				return nil, nil, err
			}
			speed, err := cols.floatVal(rec, "speed_avg")
			if err != nil {
				return nil, nil, err
			}
			overtaken, err := cols.floatVal(rec, "n_opponents_overtaken")
			if err != nil {
				return nil, nil, err
			}
			runs = append(runs, model.RunEvent{
				MatchID:            matchID,
				EventID:            eventID,
				PlayerID:           playerID,
				Period:             period,
				Frame:              frame,
				Subtype:            cols.str(rec, "event_subtype"),
				XThreat:            xthreat,
				Dangerous:          cols.boolVal(rec, "dangerous"),
				AvgSpeedKMH:        speed,
				OpponentsOvertaken: overtaken,
			})
		case eventTypePress:
			p := model.PressingEvent{
				MatchID:            matchID,
				EventID:            eventID,
				PlayerID:           playerID,
				Period:             period,
				Frame:              frame,
				Subtype:            cols.str(rec, "event_subtype"),
				DirectRegain:       cols.boolVal(rec, "direct_regain"),
				IndirectRegain:     cols.boolVal(rec, "indirect_regain"),
				DirectDisruption:   cols.boolVal(rec, "direct_disruption"),
				IndirectDisruption: cols.boolVal(rec, "indirect_disruption"),
				LeadToShot:         cols.boolVal(rec, "lead_to_shot"),
				LeadToGoal:         cols.boolVal(rec, "lead_to_goal"),
				OutPossessionType:  cols.str(rec, "team_out_of_possession_phase_type"),
			}
			// Success = any regain or disruption.
			p.Successful = p.Regain() || p.Disruption()
			presses = append(presses, p)
		}
	}
	return runs, presses, nil
}
