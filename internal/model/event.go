package model

import (
	"math"
	"strings"
)

// EventType is the kind of a match event.
type EventType int

const (
	EventUnknown EventType = iota
	EventPass
	EventShot
	EventDribble
	EventDuel
	EventInterception
	EventClearance
	EventBlock
	EventPressure
	EventFoulCommitted
	EventFoulWon
	EventBallReceipt
	EventBallRecovery
	EventDispossessed
	EventMiscontrol
	EventGoalKeeper
)

// Source (StatsBomb) spelling for each known event type.
var eventTypeNames = map[EventType]string{
	EventPass:          "Pass",
	EventShot:          "Shot",
	EventDribble:       "Dribble",
	EventDuel:          "Duel",
	EventInterception:  "Interception",
	EventClearance:     "Clearance",
	EventBlock:         "Block",
	EventPressure:      "Pressure",
	EventFoulCommitted: "Foul Committed",
	EventFoulWon:       "Foul Won",
	EventBallReceipt:   "Ball Receipt*",
	EventBallRecovery:  "Ball Recovery",
	EventDispossessed:  "Dispossessed",
	EventMiscontrol:    "Miscontrol",
	EventGoalKeeper:    "Goal Keeper",
}

// eventTypeLookup is keyed by the normalized form of both the source spelling
// and the compact enumeration name ("FoulCommitted", "GoalKeeperAction").
var eventTypeLookup = func() map[string]EventType {
	m := make(map[string]EventType, len(eventTypeNames)*2)
	for t, name := range eventTypeNames {
		m[normalizeTypeName(name)] = t
	}
	m[normalizeTypeName("GoalKeeperAction")] = EventGoalKeeper
	m[normalizeTypeName("Goalkeeper")] = EventGoalKeeper
	return m
}()

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseEventType maps a raw type label to an EventType. Unrecognized labels
// yield EventUnknown; the event vocabulary is open-ended.
func ParseEventType(s string) EventType {
	if t, ok := eventTypeLookup[normalizeTypeName(s)]; ok {
		return t
	}
	return EventUnknown
}

func normalizeTypeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "*")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// Location is a pitch coordinate on the 120x80 StatsBomb pitch.
type Location struct{ X, Y float64 }

// Valid reports whether both coordinates are finite numbers.
func (l *Location) Valid() bool {
	if l == nil {
		return false
	}
	return !math.IsNaN(l.X) && !math.IsInf(l.X, 0) &&
		!math.IsNaN(l.Y) && !math.IsInf(l.Y, 0)
}

// EventRecord is one typed match event. Every type-specific attribute is
// optional; its zero value is the neutral default (empty outcome, length 0,
// angle 0, xG 0, flags false).
type EventRecord struct {
	Type     EventType
	TypeName string // raw label as read from the source

	Player   string // empty = no player; the record is not aggregated
	PlayerID string
	Team     string
	MatchID  string

	Location *Location // nil when absent or malformed

	// Pass. An empty PassOutcome means the pass was completed.
	PassOutcome    string
	PassLength     float64
	PassAngle      float64 // radians
	PassCross      bool
	PassShotAssist bool
	PassKeyPassID  string

	// Shot
	ShotOutcome     string
	ShotStatsbombXG float64
	ShotBodyPart    string

	DribbleOutcome string

	DuelType    string
	DuelOutcome string

	FoulCommittedCard string

	GoalkeeperOutcome string
}

// HasPlayer reports whether the event is attributable to a player.
func (e *EventRecord) HasPlayer() bool {
	return strings.TrimSpace(e.Player) != ""
}
