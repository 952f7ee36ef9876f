package statsbomb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/go-football-metrics/internal/model"
)

const matchesJSON = `[
 {"match_id": 100, "match_date": "2015-08-08", "match_week": 1, "home_score": 4, "away_score": 2,
  "home_team": {"home_team_name": "Leicester City"}, "away_team": {"away_team_name": "Sunderland"}},
 {"match_id": 101, "match_date": "2015-08-08", "match_week": 1, "home_score": 0, "away_score": 0,
  "home_team": {"home_team_name": "Everton"}, "away_team": {"away_team_name": "Watford"}},
 {"match_id": 102, "match_date": "2015-08-09", "match_week": 1, "home_score": 0, "away_score": 1,
  "home_team": {"home_team_name": "Arsenal"}, "away_team": {"away_team_name": "West Ham United"}}
]`

const eventsJSON = `[
 {"type": {"id": 30, "name": "Pass"}, "player": {"id": 3, "name": "Riyad Mahrez"}, "team": {"name": "Leicester City"},
  "location": [60.0, 40.0], "pass": {"length": 20.5, "angle": 0.1}},
 {"type": {"id": 16, "name": "Shot"}, "player": {"id": 4, "name": "Jamie Vardy"}, "team": {"name": "Leicester City"},
  "location": [110.0, 38.0], "shot": {"statsbomb_xg": 0.42, "outcome": {"name": "Goal"}}}
]`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/competitions.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"competition_id": 2, "season_id": 27, "country_name": "England",
			"competition_name": "Premier League", "season_name": "2015/2016"}]`))
	})
	mux.HandleFunc("/matches/2/27.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(matchesJSON))
	})
	mux.HandleFunc("/events/100.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(eventsJSON))
	})
	mux.HandleFunc("/events/101.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})
	mux.HandleFunc("/events/102.json", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			w.Write([]byte(eventsJSON))
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		zw.Write([]byte(eventsJSON))
		zw.Close()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ---- client tests ----

// TestCompetitions: the catalogue decodes.
func TestCompetitions(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	comps, err := c.Competitions(context.Background())
	if err != nil {
		t.Fatalf("Competitions: %v", err)
	}
	if len(comps) != 1 || comps[0].CompetitionID != 2 || comps[0].SeasonName != "2015/2016" {
		t.Errorf("competitions: got %+v", comps)
	}
}

// TestMatches: match list decodes with team names.
func TestMatches(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	matches, err := c.Matches(context.Background(), 2, 27)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("matches: want 3, got %d", len(matches))
	}
	if got := matches[0].String(); got != "Leicester City 4-2 Sunderland (2015-08-08)" {
		t.Errorf("String: got %q", got)
	}
}

// TestEvents_TaggedWithMatch: events carry the requested match id.
func TestEvents_TaggedWithMatch(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	events, err := c.Events(context.Background(), 100)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events: want 2, got %d", len(events))
	}
	if events[1].Type != model.EventShot || events[1].MatchID != "100" || events[1].ShotStatsbombXG != 0.42 {
		t.Errorf("shot event: got %+v", events[1])
	}
}

// TestEvents_Gzip: a gzip-encoded response is decompressed.
func TestEvents_Gzip(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	events, err := c.Events(context.Background(), 102)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 || events[0].Player != "Riyad Mahrez" {
		t.Errorf("events: got %+v", events)
	}
}

// TestEvents_HTTPError: non-200 responses surface status and body.
func TestEvents_HTTPError(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	_, err := c.Events(context.Background(), 101)
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("want HTTP 500 error, got %v", err)
	}
}

// ---- season tests ----

// TestFetchSeason_SkipsFailedMatch: a failing match is skipped, the rest arrive.
func TestFetchSeason_SkipsFailedMatch(t *testing.T) {
	c := NewClient(newServer(t).URL, 6000)
	var seen []int
	res, err := c.FetchSeason(context.Background(), 2, 27, 0, func(m Match, events []model.EventRecord) error {
		seen = append(seen, m.MatchID)
		return nil
	})
	if err != nil {
		t.Fatalf("FetchSeason: %v", err)
	}
	if res.Matches != 3 || res.Fetched != 2 || res.Events != 4 {
		t.Errorf("result: got %+v", res)
	}
	if len(res.Failed) != 1 || res.Failed[0] != 101 {
		t.Errorf("Failed: want [101], got %v", res.Failed)
	}
	if len(seen) != 2 || seen[0] != 100 || seen[1] != 102 {
		t.Errorf("callback order: got %v", seen)
	}
}

// TestFetchSeason_Limit: only the first N matches are fetched.
func TestFetchSeason_Limit(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	res, err := c.FetchSeason(context.Background(), 2, 27, 1, func(Match, []model.EventRecord) error { return nil })
	if err != nil {
		t.Fatalf("FetchSeason: %v", err)
	}
	if res.Matches != 1 || res.Fetched != 1 {
		t.Errorf("result: got %+v", res)
	}
}

// TestFetchSeason_CallbackError: an error from the callback stops the walk.
func TestFetchSeason_CallbackError(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	stop := errors.New("disk full")
	res, err := c.FetchSeason(context.Background(), 2, 27, 0, func(Match, []model.EventRecord) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("want callback error, got %v", err)
	}
	if res.Fetched != 0 {
		t.Errorf("Fetched: want 0, got %d", res.Fetched)
	}
}

// TestFetchSeason_Cancelled: a cancelled context ends the walk with its error.
func TestFetchSeason_Cancelled(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchSeason(ctx, 2, 27, 0, func(Match, []model.EventRecord) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
