package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-football-metrics/internal/export"
	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/similarity"
	"github.com/pable/go-football-metrics/internal/storage"
)

// Store is the read side of the run store the handlers need.
type Store interface {
	ListRuns() ([]model.RunSummary, error)
	ResolveRun(prefix string) (*model.RunSummary, error)
	GetPlayerStats(runID string) ([]*model.PlayerAggregate, error)
	GetPlayer(runID, name string) (*model.PlayerAggregate, error)
	TeamTotalsForRun(runID string) ([]model.TeamTotals, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store      Store
	topN       int
	minPasses  int
	summaryTop int
	log        logger.Logger
}

// Defaults for query parameters that are not given.
type Defaults struct {
	TopN        int
	SummaryTopN int
	MinPasses   int
}

// NewHandler creates a Handler.
func NewHandler(store Store, d Defaults) *Handler {
	return &Handler{
		store:      store,
		topN:       d.TopN,
		minPasses:  d.MinPasses,
		summaryTop: d.SummaryTopN,
		log:        logger.Named("api"),
	}
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRuns lists stored runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if runs == nil {
		runs = []model.RunSummary{}
	}
	WriteJSONObject(w, http.StatusOK, map[string]any{"runs": runs})
}

// ListPlayers returns the player table of a run.
// Query: run (id prefix), view (full|simple), team, limit.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	run, players, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	view := export.Full
	if name := q.Get("view"); name != "" {
		v, found := export.ViewByName(name)
		if !found {
			WriteError(w, http.StatusBadRequest, "invalid_view", "unknown view "+strconv.Quote(name))
			return
		}
		view = v
	}
	if team := q.Get("team"); team != "" {
		var filtered []*model.PlayerAggregate
		for _, p := range players {
			if strings.EqualFold(p.Team, team) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}

	buf := []byte(`{"run_id":` + strconv.Quote(run.RunID) + `,"players":[`)
	for i, p := range players {
		row, err := export.MarshalRow(view.Columns, p)
		if err != nil {
			h.internal(w, r, err)
			return
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, row...)
	}
	buf = append(buf, "]}\n"...)
	writeRaw(w, http.StatusOK, buf)
}

// GetPlayer returns every column of one player.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.store.GetPlayer(run.RunID, name)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "ambiguous_player", err.Error())
		return
	}
	if p == nil {
		WriteError(w, http.StatusNotFound, "player_not_found", "no player matching "+strconv.Quote(name))
		return
	}
	row, err := export.MarshalRow(model.Columns, p)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, append(row, '\n'))
}

type leaderEntry struct {
	Rank          int     `json:"rank"`
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	MatchesPlayed int     `json:"matches_played"`
	Value         float64 `json:"value"`
}

func leaders(col model.Column, players []*model.PlayerAggregate) []leaderEntry {
	out := make([]leaderEntry, len(players))
	for i, p := range players {
		out[i] = leaderEntry{i + 1, p.Name, p.Team, p.MatchesPlayed, col.Numeric(p)}
	}
	return out
}

// GetLeaders ranks players by one numeric column.
// Query: run, n, min_passes.
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")
	col, err := ranking.Metric(metric)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "unknown_metric", err.Error())
		return
	}
	n, ok := intParam(w, r, "n", h.topN)
	if !ok {
		return
	}
	minPasses, ok := intParam(w, r, "min_passes", 0)
	if !ok {
		return
	}
	run, players, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	top, err := ranking.TopBy(players, metric, n, minPasses)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	WriteJSONObject(w, http.StatusOK, map[string]any{
		"run_id":     run.RunID,
		"metric":     col.Name,
		"min_passes": minPasses,
		"leaders":    leaders(col, top),
	})
}

// GetSummary returns the season summary boards.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n", h.summaryTop)
	if !ok {
		return
	}
	run, players, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	s := ranking.Summarize(players, n, h.minPasses)
	col := func(name string) model.Column {
		c, _ := model.ColumnByName(name)
		return c
	}
	WriteJSONObject(w, http.StatusOK, map[string]any{
		"run_id":            run.RunID,
		"total_players":     s.TotalPlayers,
		"regular_players":   s.RegularPlayers,
		"core_players":      s.CorePlayers,
		"total_goals":       s.TotalGoals,
		"total_xg":          s.TotalXG,
		"min_passes":        s.MinPasses,
		"top_scorers":       leaders(col("goals_scored"), s.TopScorers),
		"top_assisters":     leaders(col("assists"), s.TopAssisters),
		"top_passers":       leaders(col("passes_attempted"), s.TopPassers),
		"top_pass_accuracy": leaders(col("pass_completion_rate"), s.TopPassAccuracy),
	})
}

// GetTeams returns per-team totals of a run.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	teams, err := h.store.TeamTotalsForRun(run.RunID)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if teams == nil {
		teams = []model.TeamTotals{}
	}
	WriteJSONObject(w, http.StatusOK, map[string]any{"run_id": run.RunID, "teams": teams})
}

type similarEntry struct {
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	MatchesPlayed int     `json:"matches_played"`
	Score         float64 `json:"score"`
}

// GetSimilar returns players with a similar style.
// Query: run, role, n, min_matches.
func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n", 10)
	if !ok {
		return
	}
	minMatches, ok := intParam(w, r, "min_matches", 0)
	if !ok {
		return
	}
	run, players, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	q := similarity.Query{
		Player:     chi.URLParam(r, "name"),
		Role:       r.URL.Query().Get("role"),
		N:          n,
		MinMatches: minMatches,
	}
	results, err := similarity.Search(players, q)
	switch {
	case errors.Is(err, similarity.ErrPlayerNotFound):
		WriteError(w, http.StatusNotFound, "player_not_found", err.Error())
		return
	case errors.Is(err, similarity.ErrUnknownRole):
		WriteError(w, http.StatusBadRequest, "unknown_role", err.Error())
		return
	case err != nil:
		h.internal(w, r, err)
		return
	}
	out := make([]similarEntry, len(results))
	for i, res := range results {
		out[i] = similarEntry{res.Player.Name, res.Player.Team, res.Player.MatchesPlayed, res.Score}
	}
	WriteJSONObject(w, http.StatusOK, map[string]any{
		"run_id":  run.RunID,
		"player":  q.Player,
		"role":    q.Role,
		"results": out,
	})
}

func (h *Handler) resolveRun(w http.ResponseWriter, r *http.Request) (*model.RunSummary, bool) {
	run, err := h.store.ResolveRun(r.URL.Query().Get("run"))
	if errors.Is(err, storage.ErrNoRuns) {
		WriteError(w, http.StatusNotFound, "run_not_found", err.Error())
		return nil, false
	}
	if err != nil {
		h.internal(w, r, err)
		return nil, false
	}
	return run, true
}

func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*model.RunSummary, []*model.PlayerAggregate, bool) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return nil, nil, false
	}
	players, err := h.store.GetPlayerStats(run.RunID)
	if err != nil {
		h.internal(w, r, err)
		return nil, nil, false
	}
	return run, players, true
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// intParam parses a non-negative integer query parameter, writing a 400 on
// failure.
func intParam(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		WriteError(w, http.StatusBadRequest, "invalid_parameter", key+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
