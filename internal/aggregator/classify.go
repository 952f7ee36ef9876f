package aggregator

import (
	"math"

	"github.com/pable/go-football-metrics/internal/model"
)

// Thresholds on the 120x80 pitch; lengths in pitch units, angles in radians.
const (
	shortPassMax     = 15.0
	mediumPassMax    = 30.0
	forwardAngleMax  = 0.5
	backwardAngleMin = 2.6
	penaltyBoxX      = 102.0
)

// Apply folds one event into agg: the type-specific rule selected by
// ev.Type, plus the bookkeeping every event gets (event count, match set,
// position sample). It returns false when ev carried a location that could
// not be used.
func Apply(agg *model.PlayerAggregate, ev *model.EventRecord) bool {
	agg.TotalEvents++
	agg.AddMatch(ev.MatchID)
	if ev.Team != "" {
		agg.Team = ev.Team
	}
	if agg.PlayerID == "" {
		agg.PlayerID = ev.PlayerID
	}

	locOK := ev.Location == nil || ev.Location.Valid()
	if ev.Location != nil && locOK {
		agg.AddPosition(ev.Location.X, ev.Location.Y)
	}

	switch ev.Type {
	case model.EventPass:
		applyPass(agg, ev)
	case model.EventShot:
		applyShot(agg, ev)
	case model.EventDribble:
		agg.DribblesAttempted++
		if ev.DribbleOutcome == "Complete" {
			agg.DribblesCompleted++
		} else {
			agg.DribblesFailed++
		}
	case model.EventDuel:
		if ev.DuelType == "Tackle" {
			agg.TacklesAttempted++
			if ev.DuelOutcome == "Won" {
				agg.TacklesWon++
			}
		}
	case model.EventInterception:
		agg.Interceptions++
	case model.EventClearance:
		agg.Clearances++
	case model.EventBlock:
		agg.Blocks++
	case model.EventPressure:
		agg.PressureEvents++
	case model.EventFoulCommitted:
		agg.FoulsCommitted++
		switch ev.FoulCommittedCard {
		case "Yellow Card":
			agg.YellowCards++
		case "Red Card", "Second Yellow":
			agg.RedCards++
		}
	case model.EventFoulWon:
		agg.FoulsWon++
	case model.EventBallReceipt:
		agg.BallReceipts++
	case model.EventBallRecovery:
		agg.BallRecoveries++
	case model.EventDispossessed:
		agg.Dispossessed++
	case model.EventMiscontrol:
		agg.Miscontrols++
	case model.EventGoalKeeper:
		switch ev.GoalkeeperOutcome {
		case "Saved", "Claim", "Punch":
			agg.Saves++
		}
	}
	return locOK
}

func applyPass(agg *model.PlayerAggregate, ev *model.EventRecord) {
	agg.PassesAttempted++
	completed := ev.PassOutcome == ""
	if completed {
		agg.PassesCompleted++
	} else {
		agg.PassesFailed++
	}

	switch {
	case ev.PassLength < shortPassMax:
		agg.ShortPasses++
	case ev.PassLength < mediumPassMax:
		agg.MediumPasses++
	default:
		agg.LongPasses++
	}

	angle := math.Abs(ev.PassAngle)
	switch {
	case angle < forwardAngleMax:
		agg.ForwardPasses++
	case angle > backwardAngleMin:
		agg.BackwardPasses++
	default:
		agg.SidewaysPasses++
	}

	if ev.PassShotAssist {
		agg.Assists++
	}
	if ev.PassKeyPassID != "" {
		agg.KeyPasses++
	}
	if ev.PassCross {
		agg.CrossesAttempted++
		if completed {
			agg.CrossesCompleted++
		}
	}
}

func applyShot(agg *model.PlayerAggregate, ev *model.EventRecord) {
	agg.ShotsTotal++
	if xg := ev.ShotStatsbombXG; !math.IsNaN(xg) && !math.IsInf(xg, 0) {
		agg.TotalXG += xg
	}

	switch ev.ShotOutcome {
	case "Goal":
		agg.GoalsScored++
		agg.ShotsOnTarget++
	case "Saved", "Saved To Post":
		agg.ShotsOnTarget++
	case "Blocked":
		agg.ShotsBlocked++
	default:
		agg.ShotsOffTarget++
	}

	// Shots without a usable location are in neither box bucket.
	if ev.Location.Valid() {
		if ev.Location.X >= penaltyBoxX {
			agg.ShotsFromInsideBox++
		} else {
			agg.ShotsOutsideBox++
		}
	}

	if ev.ShotBodyPart == "Head" {
		agg.Headers++
	}
}
