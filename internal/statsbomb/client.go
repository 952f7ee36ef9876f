// Package statsbomb provides a minimal client for the StatsBomb open-data
// repository (competitions, matches and per-match events).
package statsbomb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/parser"
)

// DefaultBaseURL is the raw-content root of the open-data repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

// Client is a rate-limited StatsBomb open-data client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient returns a client for baseURL allowing requestsPerMinute requests.
// A non-positive rate disables limiting.
func NewClient(baseURL string, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.Named("statsbomb"),
	}
}

// Competition is one competition season from competitions.json.
type Competition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CountryName     string `json:"country_name"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
}

// Match holds the fields we need from matches/{competition}/{season}.json.
type Match struct {
	MatchID   int    `json:"match_id"`
	MatchDate string `json:"match_date"`
	MatchWeek int    `json:"match_week"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
}

// String renders "Home 2-1 Away (date)".
func (m Match) String() string {
	return fmt.Sprintf("%s %d-%d %s (%s)", m.HomeTeam.Name, m.HomeScore, m.AwayScore, m.AwayTeam.Name, m.MatchDate)
}

// get performs a rate-limited GET and returns the (decompressed) body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("GET %s: gzip: %w", path, err)
		}
		defer zr.Close()
		body = zr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, truncate(data, 200))
	}
	c.log.Debug(ctx, "fetched", logger.String("path", path), logger.Int("bytes", len(data)))
	return data, nil
}

// Competitions lists every competition season in the repository.
func (c *Client) Competitions(ctx context.Context) ([]Competition, error) {
	data, err := c.get(ctx, "/competitions.json")
	if err != nil {
		return nil, err
	}
	var out []Competition
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode competitions: %w", err)
	}
	return out, nil
}

// Matches lists the matches of one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]Match, error) {
	data, err := c.get(ctx, fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID))
	if err != nil {
		return nil, err
	}
	var out []Match
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return out, nil
}

// Events returns the events of one match, tagged with its match id.
func (c *Client) Events(ctx context.Context, matchID int) ([]model.EventRecord, error) {
	data, err := c.get(ctx, fmt.Sprintf("/events/%d.json", matchID))
	if err != nil {
		return nil, err
	}
	events, err := parser.DecodeEvents(bytes.NewReader(data), strconv.Itoa(matchID))
	if err != nil {
		return nil, fmt.Errorf("decode events for match %d: %w", matchID, err)
	}
	return events, nil
}

// SeasonResult counts what FetchSeason delivered.
type SeasonResult struct {
	Matches int
	Fetched int
	Failed  []int
	Events  int
}

// FetchSeason fetches the events of every match of a season (the first limit
// matches when limit > 0) and hands each match to fn. A match whose events
// cannot be fetched is logged and skipped; an error from fn or a cancelled
// ctx stops the walk.
func (c *Client) FetchSeason(ctx context.Context, competitionID, seasonID, limit int,
	fn func(m Match, events []model.EventRecord) error) (SeasonResult, error) {
	var res SeasonResult
	matches, err := c.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return res, fmt.Errorf("list matches: %w", err)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	res.Matches = len(matches)

	for i, m := range matches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		events, err := c.Events(ctx, m.MatchID)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			c.log.Warn(ctx, "skipping match",
				logger.Int("match_id", m.MatchID), logger.Error(err))
			res.Failed = append(res.Failed, m.MatchID)
			continue
		}
		c.log.Info(ctx, "match fetched",
			logger.String("progress", fmt.Sprintf("%d/%d", i+1, len(matches))),
			logger.String("match", m.String()),
			logger.Int("events", len(events)))
		if err := fn(m, events); err != nil {
			return res, err
		}
		res.Fetched++
		res.Events += len(events)
	}
	return res, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
