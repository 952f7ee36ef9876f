package similarity

import "github.com/pable/go-football-metrics/internal/model"

// Feature groups. Role profiles weight groups, not single features.
const (
	GroupProgression = "progression"
	GroupShooting    = "shooting"
	GroupPassing     = "passing"
	GroupDribbling   = "dribbling"
	GroupDefending   = "defending"
	GroupPhysical    = "physical"
	GroupAerial      = "aerial"
	GroupKeeping     = "keeping"
)

// Feature is one dimension of a player's style vector.
type Feature struct {
	Name  string
	Group string
	Value func(p *model.PlayerAggregate) float64
}

func perMatch(f func(p *model.PlayerAggregate) int) func(p *model.PlayerAggregate) float64 {
	return func(p *model.PlayerAggregate) float64 {
		if p.MatchesPlayed == 0 {
			return 0
		}
		return float64(f(p)) / float64(p.MatchesPlayed)
	}
}

// OutfieldFeatures describe outfield players. Counting stats are per match so
// players with different minutes compare by style.
var OutfieldFeatures = []Feature{
	{"forward_passes_pg", GroupProgression, perMatch(func(p *model.PlayerAggregate) int { return p.ForwardPasses })},
	{"long_passes_pg", GroupProgression, perMatch(func(p *model.PlayerAggregate) int { return p.LongPasses })},
	{"crosses_pg", GroupProgression, perMatch(func(p *model.PlayerAggregate) int { return p.CrossesAttempted })},
	{"avg_position_x", GroupProgression, func(p *model.PlayerAggregate) float64 { return p.AvgPositionX }},

	{"shots_pg", GroupShooting, func(p *model.PlayerAggregate) float64 { return p.ShotsPerGame }},
	{"goals_pg", GroupShooting, func(p *model.PlayerAggregate) float64 { return p.GoalsPerGame }},
	{"xg_pg", GroupShooting, func(p *model.PlayerAggregate) float64 {
		if p.MatchesPlayed == 0 {
			return 0
		}
		return p.TotalXG / float64(p.MatchesPlayed)
	}},
	{"shot_accuracy", GroupShooting, func(p *model.PlayerAggregate) float64 { return p.ShotAccuracy }},

	{"passes_pg", GroupPassing, func(p *model.PlayerAggregate) float64 { return p.PassesPerGame }},
	{"pass_completion_rate", GroupPassing, func(p *model.PlayerAggregate) float64 { return p.PassCompletionRate }},
	{"key_passes_pg", GroupPassing, perMatch(func(p *model.PlayerAggregate) int { return p.KeyPasses })},
	{"assists_pg", GroupPassing, func(p *model.PlayerAggregate) float64 { return p.AssistsPerGame }},

	{"dribbles_pg", GroupDribbling, perMatch(func(p *model.PlayerAggregate) int { return p.DribblesAttempted })},
	{"dribble_success_rate", GroupDribbling, func(p *model.PlayerAggregate) float64 { return p.DribbleSuccessRate }},
	{"dispossessed_pg", GroupDribbling, perMatch(func(p *model.PlayerAggregate) int { return p.Dispossessed })},

	{"tackles_pg", GroupDefending, perMatch(func(p *model.PlayerAggregate) int { return p.TacklesAttempted })},
	{"interceptions_pg", GroupDefending, perMatch(func(p *model.PlayerAggregate) int { return p.Interceptions })},
	{"clearances_pg", GroupDefending, perMatch(func(p *model.PlayerAggregate) int { return p.Clearances })},
	{"blocks_pg", GroupDefending, perMatch(func(p *model.PlayerAggregate) int { return p.Blocks })},

	{"pressures_pg", GroupPhysical, perMatch(func(p *model.PlayerAggregate) int { return p.PressureEvents })},
	{"recoveries_pg", GroupPhysical, perMatch(func(p *model.PlayerAggregate) int { return p.BallRecoveries })},
	{"fouls_won_pg", GroupPhysical, perMatch(func(p *model.PlayerAggregate) int { return p.FoulsWon })},

	{"headers_pg", GroupAerial, perMatch(func(p *model.PlayerAggregate) int { return p.Headers })},
}

// KeeperFeatures describe goalkeepers; they are never weighted.
var KeeperFeatures = []Feature{
	{"saves_pg", GroupKeeping, perMatch(func(p *model.PlayerAggregate) int { return p.Saves })},
	{"passes_pg", GroupKeeping, func(p *model.PlayerAggregate) float64 { return p.PassesPerGame }},
	{"long_passes_pg", GroupKeeping, perMatch(func(p *model.PlayerAggregate) int { return p.LongPasses })},
	{"pass_completion_rate", GroupKeeping, func(p *model.PlayerAggregate) float64 { return p.PassCompletionRate }},
	{"clearances_pg", GroupKeeping, perMatch(func(p *model.PlayerAggregate) int { return p.Clearances })},
	{"receipts_pg", GroupKeeping, perMatch(func(p *model.PlayerAggregate) int { return p.BallReceipts })},
	{"avg_position_x", GroupKeeping, func(p *model.PlayerAggregate) float64 { return p.AvgPositionX }},
}

// RoleGK selects the goalkeeper feature set.
const RoleGK = "gk"

// RoleProfiles weight feature groups per playing role. Groups absent from a
// profile get weight 0.
var RoleProfiles = map[string]map[string]float64{
	"cam": {
		GroupProgression: 0.15, GroupShooting: 0.1, GroupPassing: 0.3,
		GroupDribbling: 0.3, GroupDefending: 0.05, GroupPhysical: 0.1,
	},
	"st": {
		GroupProgression: 0.25, GroupShooting: 0.4, GroupPassing: 0.05,
		GroupDribbling: 0.2, GroupPhysical: 0.1,
	},
	"cdm": {
		GroupProgression: 0.1, GroupShooting: 0.05, GroupPassing: 0.2,
		GroupDribbling: 0.1, GroupDefending: 0.35, GroupPhysical: 0.2,
	},
	"winger": {
		GroupProgression: 0.35, GroupShooting: 0.1, GroupPassing: 0.15,
		GroupDribbling: 0.3, GroupPhysical: 0.1,
	},
	"cb": {
		GroupProgression: 0.05, GroupPassing: 0.05, GroupDefending: 0.5,
		GroupPhysical: 0.35, GroupAerial: 0.15,
	},
	"fullback": {
		GroupProgression: 0.25, GroupPassing: 0.15, GroupDribbling: 0.15,
		GroupDefending: 0.3, GroupPhysical: 0.15,
	},
	"cm": {
		GroupProgression: 0.15, GroupShooting: 0.1, GroupPassing: 0.25,
		GroupDribbling: 0.2, GroupDefending: 0.15, GroupPhysical: 0.15,
	},
	RoleGK: nil,
}
