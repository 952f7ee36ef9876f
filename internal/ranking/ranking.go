// Package ranking orders and slices a finalized player table. Every function
// is a pure query: inputs are never mutated.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pable/go-football-metrics/internal/model"
)

// ErrUnknownMetric is returned for a metric that is not a numeric column.
var ErrUnknownMetric = errors.New("unknown metric")

// Season summary thresholds.
const (
	RegularMatches = 10
	CoreMatches    = 20
)

// Sorted returns a copy of players in canonical report order: matches played
// descending, then total events descending. Ties keep input order.
func Sorted(players []*model.PlayerAggregate) []*model.PlayerAggregate {
	out := append([]*model.PlayerAggregate(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchesPlayed != out[j].MatchesPlayed {
			return out[i].MatchesPlayed > out[j].MatchesPlayed
		}
		return out[i].TotalEvents > out[j].TotalEvents
	})
	return out
}

// Metric resolves a numeric column by name.
func Metric(name string) (model.Column, error) {
	c, ok := model.ColumnByName(name)
	if !ok || c.Kind == model.KindText {
		return model.Column{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return c, nil
}

// TopBy returns the n players with the highest value of metric among those
// with at least minPasses passes attempted. n <= 0 means no limit. Ties keep
// input order.
func TopBy(players []*model.PlayerAggregate, metric string, n, minPasses int) ([]*model.PlayerAggregate, error) {
	col, err := Metric(metric)
	if err != nil {
		return nil, err
	}
	var out []*model.PlayerAggregate
	for _, p := range players {
		if p.PassesAttempted >= minPasses {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return col.Numeric(out[i]) > col.Numeric(out[j])
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Summary is the season overview printed after aggregation.
type Summary struct {
	TotalPlayers    int
	RegularPlayers  int // >= RegularMatches
	CorePlayers     int // >= CoreMatches
	TotalGoals      int
	TotalXG         float64
	TopScorers      []*model.PlayerAggregate
	TopAssisters    []*model.PlayerAggregate
	TopPassers      []*model.PlayerAggregate
	TopPassAccuracy []*model.PlayerAggregate
	MinPasses       int
}

// Summarize builds the season summary with topN entries per leaderboard.
// The pass accuracy board only considers players with minPasses attempts.
func Summarize(players []*model.PlayerAggregate, topN, minPasses int) Summary {
	s := Summary{TotalPlayers: len(players), MinPasses: minPasses}
	for _, p := range players {
		if p.MatchesPlayed >= RegularMatches {
			s.RegularPlayers++
		}
		if p.MatchesPlayed >= CoreMatches {
			s.CorePlayers++
		}
		s.TotalGoals += p.GoalsScored
		s.TotalXG += p.TotalXG
	}
	// Metric names below are schema constants; errors are impossible.
	s.TopScorers, _ = TopBy(players, "goals_scored", topN, 0)
	s.TopAssisters, _ = TopBy(players, "assists", topN, 0)
	s.TopPassers, _ = TopBy(players, "passes_attempted", topN, 0)
	s.TopPassAccuracy, _ = TopBy(players, "pass_completion_rate", topN, minPasses)
	return s
}
