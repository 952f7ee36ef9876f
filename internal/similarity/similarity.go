// Package similarity finds players with a similar statistical style. Feature
// vectors are z-score standardized over the candidate pool, optionally
// weighted by a role profile, and compared with cosine similarity.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pable/go-football-metrics/internal/model"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownRole    = errors.New("unknown role")
)

// Query parameters for Search.
type Query struct {
	Player     string
	Role       string // "" weighs every outfield feature equally
	N          int
	MinMatches int // candidates below this are ignored; the target never is
}

// Result is one similar player and its cosine score in [-1, 1].
type Result struct {
	Player *model.PlayerAggregate
	Score  float64
}

// IsGoalkeeper reports whether the player recorded goalkeeper actions.
func IsGoalkeeper(p *model.PlayerAggregate) bool { return p.Saves > 0 }

// Roles returns the known role names, sorted.
func Roles() []string {
	out := make([]string, 0, len(RoleProfiles))
	for r := range RoleProfiles {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Find returns the player named name: an exact match first, then a
// case-insensitive one.
func Find(players []*model.PlayerAggregate, name string) (*model.PlayerAggregate, error) {
	for _, p := range players {
		if p.Name == name {
			return p, nil
		}
	}
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
}

// Search returns the q.N players most similar to q.Player, best first. The
// target is excluded. Goalkeepers are compared only with goalkeepers, using
// KeeperFeatures; the "gk" role forces that mode.
func Search(players []*model.PlayerAggregate, q Query) ([]Result, error) {
	role := strings.ToLower(strings.TrimSpace(q.Role))
	profile, ok := RoleProfiles[role]
	if role != "" && !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownRole, q.Role, strings.Join(Roles(), ", "))
	}
	target, err := Find(players, q.Player)
	if err != nil {
		return nil, err
	}

	keepers := role == RoleGK || (role == "" && IsGoalkeeper(target))
	features := OutfieldFeatures
	if keepers {
		features = KeeperFeatures
		profile = nil
	}

	pool := []*model.PlayerAggregate{target}
	for _, p := range players {
		if p == target || IsGoalkeeper(p) != keepers || p.MatchesPlayed < q.MinMatches {
			continue
		}
		pool = append(pool, p)
	}

	vectors := Standardize(pool, features)
	if profile != nil {
		weights := make([]float64, len(features))
		for i, f := range features {
			weights[i] = profile[f.Group]
		}
		for _, v := range vectors {
			for i := range v {
				v[i] *= weights[i]
			}
		}
	}

	out := make([]Result, 0, len(pool)-1)
	for i := 1; i < len(pool); i++ {
		out = append(out, Result{Player: pool[i], Score: Cosine(vectors[0], vectors[i])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if q.N > 0 && len(out) > q.N {
		out = out[:q.N]
	}
	return out, nil
}

// Standardize builds one feature vector per player and rescales every
// dimension to zero mean and unit population variance. Constant dimensions
// become 0.
func Standardize(players []*model.PlayerAggregate, features []Feature) [][]float64 {
	vectors := make([][]float64, len(players))
	for i, p := range players {
		v := make([]float64, len(features))
		for j, f := range features {
			v[j] = f.Value(p)
		}
		vectors[i] = v
	}
	if len(players) == 0 {
		return vectors
	}
	n := float64(len(players))
	for j := range features {
		var mean float64
		for _, v := range vectors {
			mean += v[j]
		}
		mean /= n
		var variance float64
		for _, v := range vectors {
			d := v[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)
		for _, v := range vectors {
			if std == 0 {
				v[j] = 0
			} else {
				v[j] = (v[j] - mean) / std
			}
		}
	}
	return vectors
}

// Cosine returns the cosine similarity of a and b, 0 when either is a zero
// vector.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
