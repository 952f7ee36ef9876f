package model

import "strconv"

// ColumnKind is the value type stored in a Column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
)

// Column is one field of the exported player table. Field returns a pointer to
// the backing struct field so the same definition drives formatting, sorting
// and scanning rows back from storage.
type Column struct {
	Name  string
	Kind  ColumnKind
	Field func(a *PlayerAggregate) any
}

// Numeric returns the column's value as float64. Text columns return 0.
func (c Column) Numeric(a *PlayerAggregate) float64 {
	switch p := c.Field(a).(type) {
	case *int:
		return float64(*p)
	case *float64:
		return *p
	default:
		return 0
	}
}

// Value returns the column's value.
func (c Column) Value(a *PlayerAggregate) any {
	switch p := c.Field(a).(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	default:
		return nil
	}
}

// Format renders the column value as text for delimited output.
func (c Column) Format(a *PlayerAggregate) string {
	switch p := c.Field(a).(type) {
	case *string:
		return *p
	case *int:
		return strconv.Itoa(*p)
	case *float64:
		return strconv.FormatFloat(*p, 'f', -1, 64)
	default:
		return ""
	}
}

func text(name string, f func(a *PlayerAggregate) *string) Column {
	return Column{Name: name, Kind: KindText, Field: func(a *PlayerAggregate) any { return f(a) }}
}

func integer(name string, f func(a *PlayerAggregate) *int) Column {
	return Column{Name: name, Kind: KindInt, Field: func(a *PlayerAggregate) any { return f(a) }}
}

func float(name string, f func(a *PlayerAggregate) *float64) Column {
	return Column{Name: name, Kind: KindFloat, Field: func(a *PlayerAggregate) any { return f(a) }}
}

// Columns is the full player table schema, in export order.
var Columns = []Column{
	text("player_name", func(a *PlayerAggregate) *string { return &a.Name }),
	text("player_id", func(a *PlayerAggregate) *string { return &a.PlayerID }),
	text("team", func(a *PlayerAggregate) *string { return &a.Team }),
	integer("matches_played", func(a *PlayerAggregate) *int { return &a.MatchesPlayed }),
	integer("total_events", func(a *PlayerAggregate) *int { return &a.TotalEvents }),

	integer("passes_attempted", func(a *PlayerAggregate) *int { return &a.PassesAttempted }),
	integer("passes_completed", func(a *PlayerAggregate) *int { return &a.PassesCompleted }),
	integer("passes_failed", func(a *PlayerAggregate) *int { return &a.PassesFailed }),
	float("pass_completion_rate", func(a *PlayerAggregate) *float64 { return &a.PassCompletionRate }),
	integer("short_passes", func(a *PlayerAggregate) *int { return &a.ShortPasses }),
	integer("medium_passes", func(a *PlayerAggregate) *int { return &a.MediumPasses }),
	integer("long_passes", func(a *PlayerAggregate) *int { return &a.LongPasses }),
	integer("forward_passes", func(a *PlayerAggregate) *int { return &a.ForwardPasses }),
	integer("backward_passes", func(a *PlayerAggregate) *int { return &a.BackwardPasses }),
	integer("sideways_passes", func(a *PlayerAggregate) *int { return &a.SidewaysPasses }),
	integer("key_passes", func(a *PlayerAggregate) *int { return &a.KeyPasses }),
	integer("assists", func(a *PlayerAggregate) *int { return &a.Assists }),
	integer("crosses_attempted", func(a *PlayerAggregate) *int { return &a.CrossesAttempted }),
	integer("crosses_completed", func(a *PlayerAggregate) *int { return &a.CrossesCompleted }),

	integer("shots_total", func(a *PlayerAggregate) *int { return &a.ShotsTotal }),
	integer("shots_on_target", func(a *PlayerAggregate) *int { return &a.ShotsOnTarget }),
	integer("shots_off_target", func(a *PlayerAggregate) *int { return &a.ShotsOffTarget }),
	integer("shots_blocked", func(a *PlayerAggregate) *int { return &a.ShotsBlocked }),
	integer("goals_scored", func(a *PlayerAggregate) *int { return &a.GoalsScored }),
	integer("shots_from_inside_box", func(a *PlayerAggregate) *int { return &a.ShotsFromInsideBox }),
	integer("shots_from_outside_box", func(a *PlayerAggregate) *int { return &a.ShotsOutsideBox }),
	integer("headers", func(a *PlayerAggregate) *int { return &a.Headers }),
	float("total_xg", func(a *PlayerAggregate) *float64 { return &a.TotalXG }),
	float("shot_accuracy", func(a *PlayerAggregate) *float64 { return &a.ShotAccuracy }),

	integer("dribbles_attempted", func(a *PlayerAggregate) *int { return &a.DribblesAttempted }),
	integer("dribbles_completed", func(a *PlayerAggregate) *int { return &a.DribblesCompleted }),
	integer("dribbles_failed", func(a *PlayerAggregate) *int { return &a.DribblesFailed }),
	float("dribble_success_rate", func(a *PlayerAggregate) *float64 { return &a.DribbleSuccessRate }),

	integer("tackles_attempted", func(a *PlayerAggregate) *int { return &a.TacklesAttempted }),
	integer("tackles_won", func(a *PlayerAggregate) *int { return &a.TacklesWon }),
	integer("interceptions", func(a *PlayerAggregate) *int { return &a.Interceptions }),
	integer("clearances", func(a *PlayerAggregate) *int { return &a.Clearances }),
	integer("blocks", func(a *PlayerAggregate) *int { return &a.Blocks }),
	integer("pressure_events", func(a *PlayerAggregate) *int { return &a.PressureEvents }),
	integer("fouls_committed", func(a *PlayerAggregate) *int { return &a.FoulsCommitted }),
	integer("fouls_won", func(a *PlayerAggregate) *int { return &a.FoulsWon }),
	integer("yellow_cards", func(a *PlayerAggregate) *int { return &a.YellowCards }),
	integer("red_cards", func(a *PlayerAggregate) *int { return &a.RedCards }),

	integer("saves", func(a *PlayerAggregate) *int { return &a.Saves }),

	float("avg_position_x", func(a *PlayerAggregate) *float64 { return &a.AvgPositionX }),
	float("avg_position_y", func(a *PlayerAggregate) *float64 { return &a.AvgPositionY }),

	integer("ball_receipts", func(a *PlayerAggregate) *int { return &a.BallReceipts }),
	integer("ball_recoveries", func(a *PlayerAggregate) *int { return &a.BallRecoveries }),
	integer("dispossessed", func(a *PlayerAggregate) *int { return &a.Dispossessed }),
	integer("miscontrols", func(a *PlayerAggregate) *int { return &a.Miscontrols }),

	float("passes_per_game", func(a *PlayerAggregate) *float64 { return &a.PassesPerGame }),
	float("shots_per_game", func(a *PlayerAggregate) *float64 { return &a.ShotsPerGame }),
	float("goals_per_game", func(a *PlayerAggregate) *float64 { return &a.GoalsPerGame }),
	float("assists_per_game", func(a *PlayerAggregate) *float64 { return &a.AssistsPerGame }),
}

// SimpleColumnNames is the reduced "key stats" view.
var SimpleColumnNames = []string{
	"player_name", "team", "matches_played", "total_events",
	"passes_attempted", "passes_completed", "pass_completion_rate",
	"shots_total", "shots_on_target", "goals_scored", "assists",
	"dribbles_attempted", "dribbles_completed", "dribble_success_rate",
	"tackles_attempted", "tackles_won", "interceptions", "clearances",
	"fouls_committed", "fouls_won", "yellow_cards", "red_cards",
	"total_xg", "passes_per_game", "shots_per_game", "goals_per_game", "assists_per_game",
}

// TopScorerColumnNames is the top-scorers view.
var TopScorerColumnNames = []string{
	"player_name", "team", "matches_played", "goals_scored", "assists", "shots_total", "total_xg",
}

var columnIndex = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.Name] = c
	}
	return m
}()

// ColumnByName looks up a schema column.
func ColumnByName(name string) (Column, bool) {
	c, ok := columnIndex[name]
	return c, ok
}

// SelectColumns resolves names to columns, skipping unknown names.
func SelectColumns(names []string) []Column {
	out := make([]Column, 0, len(names))
	for _, n := range names {
		if c, ok := columnIndex[n]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}
