package model

// ---- Raw inputs handed over by ingestion ----

// TrackingSample is one player's position on one frame. Ingestion guarantees
// strictly increasing FrameIndex per (match, player, period).
type TrackingSample struct {
	MatchID    string
	PlayerID   int64
	Period     int
	FrameIndex int
	TimestampS float64
	X, Y       float64
	Detected   bool
}

// PhaseInterval is a vendor-classified phase-of-play segment. Intervals
// within a match/period are non-overlapping; gaps are legal and mean
// "unclassified".
type PhaseInterval struct {
	MatchID            string
	Period             int
	FrameStart         int
	FrameEnd           int // inclusive
	InPossessionType   string
	OutPossessionType  string
	TeamInPossessionID int64
	LeadToShot         bool
	LeadToGoal         bool
	ThirdEnd           string
	ChannelEnd         string
}

// Contains reports whether frame lies inside the interval.
func (p *PhaseInterval) Contains(frame int) bool {
	return frame >= p.FrameStart && frame <= p.FrameEnd
}

// RunEvent is a vendor-detected off-ball run with its derived value fields.
type RunEvent struct {
	MatchID            string
	EventID            int64
	PlayerID           int64
	Period             int
	Frame              int
	Subtype            string // e.g. "run_ahead", "run_behind", "cross_receiver"
	XThreat            float64
	Dangerous          bool
	AvgSpeedKMH        float64
	OpponentsOvertaken float64
}

// PeriodNumber implements the phase-join capability.
func (r RunEvent) PeriodNumber() int { return r.Period }

// RepresentativeFrame implements the phase-join capability.
func (r RunEvent) RepresentativeFrame() int { return r.Frame }

// PressingEvent is a vendor-detected pressing action with its outcome labels.
type PressingEvent struct {
	MatchID            string
	EventID            int64
	PlayerID           int64
	Period             int
	Frame              int
	Subtype            string // "counter_press" marks counter-pressing actions
	DirectRegain       bool
	IndirectRegain     bool
	DirectDisruption   bool
	IndirectDisruption bool
	Successful         bool
	LeadToShot         bool
	LeadToGoal         bool
	OutPossessionType  string // block phase at press time: high/medium/low_block
}

// Regain reports whether the press won the ball back directly or indirectly.
func (p PressingEvent) Regain() bool { return p.DirectRegain || p.IndirectRegain }

// Disruption reports whether the press forced an error or poor decision.
func (p PressingEvent) Disruption() bool { return p.DirectDisruption || p.IndirectDisruption }

// PlayerMeta is one roster row: who played, for whom, and for how long.
type PlayerMeta struct {
	MatchID       string
	PlayerID      int64
	ShortName     string
	TeamID        int64
	TeamName      string
	ShirtNumber   int
	PositionGroup string
	RoleName      string
	MinutesPlayed float64
	Started       bool
}

// MatchData bundles everything ingestion reads for one match.
type MatchData struct {
	Summary  MatchSummary
	Roster   []PlayerMeta
	Tracking []TrackingSample
	Phases   []PhaseInterval
	Runs     []RunEvent
	Presses  []PressingEvent
}

// ---- Detected events ----

// SprintEvent is one validated sprint. Immutable once emitted; never spans
// a period boundary.
type SprintEvent struct {
	MatchID     string
	PlayerID    int64
	Period      int
	StartFrame  int
	EndFrame    int
	MidFrame    int
	DurationS   float64
	DistanceM   float64
	AvgSpeedKMH float64
	MaxSpeedKMH float64
}

// PeriodNumber implements the phase-join capability.
func (s SprintEvent) PeriodNumber() int { return s.Period }

// RepresentativeFrame returns the sprint midpoint, used for phase joins so
// a sprint straddling a phase boundary still resolves to a single phase.
func (s SprintEvent) RepresentativeFrame() int { return s.MidFrame }

// ---- Aggregated player-match metric rows ----

// SprintMetrics is the sprint family row for one (match, player).
type SprintMetrics struct {
	MatchID  string
	PlayerID int64

	MinutesPlayed float64

	SprintCount int
	PhasedCount int // sprints that resolved to a phase; denominator for phase rates

	SprintDistanceM float64
	AvgSpeedKMH     float64
	MaxSpeedKMH     float64

	SprintsPer90        float64
	SprintDistancePer90 float64

	HighValuePct      float64
	AttackingPct      float64
	DefensivePct      float64
	ShotPossessionPct float64
	GoalPossessionPct float64
	AttackingThirdPct float64

	HighValueSprintsPer90 float64
}

// RunMetrics is the off-ball-run family row for one (match, player).
type RunMetrics struct {
	MatchID  string
	PlayerID int64

	MinutesPlayed float64

	RunCount int

	AvgXThreat float64
	MaxXThreat float64

	DangerousPct       float64
	AvgRunSpeedKMH     float64
	AvgOpponentsBeaten float64
	RunsAheadPct       float64
	RunsBehindPct      float64

	RunsPer90          float64
	DangerousRunsPer90 float64
	ThreatPer90        float64
}

// PressMetrics is the pressing family row for one (match, player).
type PressMetrics struct {
	MatchID  string
	PlayerID int64

	MinutesPlayed float64

	PressCount int

	DirectRegains   int
	IndirectRegains int
	Regains         int
	Disruptions     int
	Successes       int
	ShotsForced     int
	GoalsForced     int

	RegainRate  float64
	DisruptRate float64
	SuccessRate float64
	ShotRate    float64

	HighBlockCount   int
	MediumBlockCount int
	LowBlockCount    int
	CounterPresses   int

	PressesPer90        float64
	RegainsPer90        float64
	SuccessesPer90      float64
	CounterPressesPer90 float64
}

// CombinedRow is one row of the final wide table: every roster player, with
// nil family blocks where the player produced no qualifying events.
type CombinedRow struct {
	MatchID       string
	PlayerID      int64
	ShortName     string
	TeamID        int64
	TeamName      string
	PositionGroup string
	MinutesPlayed float64

	Sprints  *SprintMetrics
	Runs     *RunMetrics
	Pressing *PressMetrics
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID     string
	MatchDate   string
	Competition string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	FPS         float64
}
