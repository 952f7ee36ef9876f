package cmd

import (
	"encoding/json"
	"testing"

	"github.com/pable/go-football-metrics/internal/model"
)

// ---- helper tests ----

// TestSplitList: blanks and surrounding spaces are dropped.
func TestSplitList(t *testing.T) {
	got := splitList(" Jamie Vardy, ,Riyad Mahrez ,")
	if len(got) != 2 || got[0] != "Jamie Vardy" || got[1] != "Riyad Mahrez" {
		t.Errorf("splitList: got %q", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(empty): want nil, got %q", got)
	}
}

// TestFilterTeam: team match ignores case and keeps order.
func TestFilterTeam(t *testing.T) {
	ps := []*model.PlayerAggregate{
		model.NewPlayerAggregate("Jamie Vardy", "", "Leicester City"),
		model.NewPlayerAggregate("Harry Kane", "", "Tottenham Hotspur"),
		model.NewPlayerAggregate("Riyad Mahrez", "", "Leicester City"),
	}
	got := filterTeam(ps, "leicester city")
	if len(got) != 2 || got[0].Name != "Jamie Vardy" || got[1].Name != "Riyad Mahrez" {
		t.Errorf("filterTeam: got %d players", len(got))
	}
}

// ---- analyze tests ----

// TestBuildAnalyzeData: the document carries the run, the full row and only
// the player's own team totals.
func TestBuildAnalyzeData(t *testing.T) {
	p := model.NewPlayerAggregate("Jamie Vardy", "3244", "Leicester City")
	p.AddMatch("1")
	p.GoalsScored = 24
	p.Finalize()
	run := &model.RunSummary{RunID: "abc", Players: 1}
	teams := []model.TeamTotals{
		{Team: "Tottenham Hotspur", Goals: 69},
		{Team: "Leicester City", Goals: 68},
	}

	data, err := buildAnalyzeData(run, p, teams)
	if err != nil {
		t.Fatalf("buildAnalyzeData: %v", err)
	}
	var doc struct {
		Run        model.RunSummary  `json:"run"`
		Player     map[string]any    `json:"player"`
		TeamTotals *model.TeamTotals `json:"team_totals"`
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Run.RunID != "abc" {
		t.Errorf("RunID: want abc, got %s", doc.Run.RunID)
	}
	if len(doc.Player) != len(model.Columns) {
		t.Errorf("player columns: want %d, got %d", len(model.Columns), len(doc.Player))
	}
	if doc.Player["goals_scored"] != float64(24) {
		t.Errorf("goals_scored: want 24, got %v", doc.Player["goals_scored"])
	}
	if doc.TeamTotals == nil || doc.TeamTotals.Team != "Leicester City" || doc.TeamTotals.Goals != 68 {
		t.Errorf("team totals: got %+v", doc.TeamTotals)
	}
}

// TestBuildAnalyzeData_NoTeam: a team missing from the totals is omitted.
func TestBuildAnalyzeData_NoTeam(t *testing.T) {
	p := model.NewPlayerAggregate("Unknown", "", "")
	p.Finalize()
	data, err := buildAnalyzeData(&model.RunSummary{}, p, nil)
	if err != nil {
		t.Fatalf("buildAnalyzeData: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["team_totals"]; ok {
		t.Error("team_totals should be omitted")
	}
}
