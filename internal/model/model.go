package model

// ---- Aggregated metrics ----

// PlayerAggregate holds one player's season totals, folded from every event
// attributed to that player. Counters only grow during accumulation; the
// derived fields at the bottom are valid only after Finalize.
type PlayerAggregate struct {
	Name     string `json:"player_name"`
	PlayerID string `json:"player_id"`
	Team     string `json:"team"` // most recently seen

	MatchesPlayed int `json:"matches_played"` // set by Finalize (or by storage on load)
	TotalEvents   int `json:"total_events"`

	// Passing
	PassesAttempted  int `json:"passes_attempted"`
	PassesCompleted  int `json:"passes_completed"`
	PassesFailed     int `json:"passes_failed"`
	ShortPasses      int `json:"short_passes"`
	MediumPasses     int `json:"medium_passes"`
	LongPasses       int `json:"long_passes"`
	ForwardPasses    int `json:"forward_passes"`
	BackwardPasses   int `json:"backward_passes"`
	SidewaysPasses   int `json:"sideways_passes"`
	KeyPasses        int `json:"key_passes"`
	Assists          int `json:"assists"`
	CrossesAttempted int `json:"crosses_attempted"`
	CrossesCompleted int `json:"crosses_completed"`

	// Shooting
	ShotsTotal         int     `json:"shots_total"`
	ShotsOnTarget      int     `json:"shots_on_target"`
	ShotsOffTarget     int     `json:"shots_off_target"`
	ShotsBlocked       int     `json:"shots_blocked"`
	GoalsScored        int     `json:"goals_scored"`
	ShotsFromInsideBox int     `json:"shots_from_inside_box"`
	ShotsOutsideBox    int     `json:"shots_from_outside_box"`
	Headers            int     `json:"headers"`
	TotalXG            float64 `json:"total_xg"`

	// Dribbling
	DribblesAttempted int `json:"dribbles_attempted"`
	DribblesCompleted int `json:"dribbles_completed"`
	DribblesFailed    int `json:"dribbles_failed"`

	// Defending and discipline
	TacklesAttempted int `json:"tackles_attempted"`
	TacklesWon       int `json:"tackles_won"`
	Interceptions    int `json:"interceptions"`
	Clearances       int `json:"clearances"`
	Blocks           int `json:"blocks"`
	PressureEvents   int `json:"pressure_events"`
	FoulsCommitted   int `json:"fouls_committed"`
	FoulsWon         int `json:"fouls_won"`
	YellowCards      int `json:"yellow_cards"`
	RedCards         int `json:"red_cards"`

	// Goalkeeping
	Saves int `json:"saves"`

	// Ball contact
	BallReceipts   int `json:"ball_receipts"`
	BallRecoveries int `json:"ball_recoveries"`
	Dispossessed   int `json:"dispossessed"`
	Miscontrols    int `json:"miscontrols"`

	// Position samples, kept as running sums.
	PositionSamples int     `json:"-"`
	PositionSumX    float64 `json:"-"`
	PositionSumY    float64 `json:"-"`

	// Derived (valid after Finalize).
	PassCompletionRate float64 `json:"pass_completion_rate"`
	ShotAccuracy       float64 `json:"shot_accuracy"`
	DribbleSuccessRate float64 `json:"dribble_success_rate"`
	AvgPositionX       float64 `json:"avg_position_x"`
	AvgPositionY       float64 `json:"avg_position_y"`
	PassesPerGame      float64 `json:"passes_per_game"`
	ShotsPerGame       float64 `json:"shots_per_game"`
	GoalsPerGame       float64 `json:"goals_per_game"`
	AssistsPerGame     float64 `json:"assists_per_game"`

	matches   map[string]struct{}
	finalized bool
}

// NewPlayerAggregate returns an empty aggregate for the given player.
func NewPlayerAggregate(name, playerID, team string) *PlayerAggregate {
	return &PlayerAggregate{
		Name:     name,
		PlayerID: playerID,
		Team:     team,
		matches:  make(map[string]struct{}),
	}
}

// AddMatch records a match the player appeared in. Empty IDs are ignored.
func (a *PlayerAggregate) AddMatch(matchID string) {
	if matchID == "" {
		return
	}
	if a.matches == nil {
		a.matches = make(map[string]struct{})
	}
	a.matches[matchID] = struct{}{}
}

// MatchCount returns the number of distinct matches seen so far.
func (a *PlayerAggregate) MatchCount() int {
	if a.finalized || a.matches == nil {
		return a.MatchesPlayed
	}
	return len(a.matches)
}

// AddPosition adds one coordinate sample to the running position mean.
func (a *PlayerAggregate) AddPosition(x, y float64) {
	a.PositionSamples++
	a.PositionSumX += x
	a.PositionSumY += y
}

// Finalized reports whether Finalize has run.
func (a *PlayerAggregate) Finalized() bool { return a.finalized }

// Finalize computes the derived rates from the accumulated counters. It runs
// once; later calls are no-ops.
func (a *PlayerAggregate) Finalize() {
	if a.finalized {
		return
	}
	a.MatchesPlayed = len(a.matches)

	a.PassCompletionRate = pct(a.PassesCompleted, a.PassesAttempted)
	a.DribbleSuccessRate = pct(a.DribblesCompleted, a.DribblesAttempted)
	a.ShotAccuracy = pct(a.ShotsOnTarget, a.ShotsTotal)

	if a.PositionSamples > 0 {
		a.AvgPositionX = a.PositionSumX / float64(a.PositionSamples)
		a.AvgPositionY = a.PositionSumY / float64(a.PositionSamples)
	}

	a.PassesPerGame = perGame(a.PassesAttempted, a.MatchesPlayed)
	a.ShotsPerGame = perGame(a.ShotsTotal, a.MatchesPlayed)
	a.GoalsPerGame = perGame(a.GoalsScored, a.MatchesPlayed)
	a.AssistsPerGame = perGame(a.Assists, a.MatchesPlayed)

	a.finalized = true
}

// MarkFinalized flags an aggregate rebuilt from a finalized row (e.g. loaded
// from storage) so it is treated as read-only.
func (a *PlayerAggregate) MarkFinalized() {
	a.matches = nil
	a.finalized = true
}

// XGPerShot returns expected goals per shot, 0 without shots.
func (a *PlayerAggregate) XGPerShot() float64 {
	if a.ShotsTotal == 0 {
		return 0
	}
	return a.TotalXG / float64(a.ShotsTotal)
}

func pct(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func perGame(count, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return float64(count) / float64(matches)
}

// RunSummary is a lightweight record of one stored aggregation run.
type RunSummary struct {
	RunID       string `json:"run_id"`
	Label       string `json:"label"`
	InputHash   string `json:"input_hash"`
	CreatedAt   string `json:"created_at"` // RFC 3339, UTC
	Competition int    `json:"competition_id"`
	Season      int    `json:"season_id"`
	Matches     int    `json:"matches"`
	Events      int    `json:"events"`
	Dropped     int    `json:"dropped_events"`
	Players     int    `json:"players"`
}

// TeamTotals holds summed season counters for one team in a run.
type TeamTotals struct {
	Team            string  `json:"team"`
	Players         int     `json:"players"`
	Goals           int     `json:"goals"`
	Assists         int     `json:"assists"`
	Shots           int     `json:"shots"`
	ShotsOnTarget   int     `json:"shots_on_target"`
	TotalXG         float64 `json:"total_xg"`
	PassesAttempted int     `json:"passes_attempted"`
	PassesCompleted int     `json:"passes_completed"`
	YellowCards     int     `json:"yellow_cards"`
	RedCards        int     `json:"red_cards"`
}

// PassCompletionRate returns completed/attempted*100, 0 without passes.
func (t TeamTotals) PassCompletionRate() float64 {
	if t.PassesAttempted == 0 {
		return 0
	}
	return float64(t.PassesCompleted) / float64(t.PassesAttempted) * 100
}
