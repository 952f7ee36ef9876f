package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/statsbomb"
)

func players() []*model.PlayerAggregate {
	a := model.NewPlayerAggregate("Jamie Vardy", "", "Leicester City")
	b := model.NewPlayerAggregate("Harry Kane", "", "Tottenham Hotspur")
	for i, p := range []*model.PlayerAggregate{a, b} {
		for m := 0; m < 25+i*10; m++ {
			p.AddMatch(string(rune('A' + m)))
		}
		p.GoalsScored = 24 + i
		p.ShotsTotal = 80
		p.TotalXG = 20.5
		p.PassesAttempted = 600
		p.PassesCompleted = 450
		p.Finalize()
	}
	return []*model.PlayerAggregate{a, b}
}

// TestPrintShootingTable: shot location splits are rendered per player.
func TestPrintShootingTable(t *testing.T) {
	ps := players()
	ps[0].ShotsFromInsideBox = 63
	ps[0].ShotsOutsideBox = 17
	var buf bytes.Buffer
	PrintShootingTable(&buf, ps, "Jamie Vardy")
	out := buf.String()
	for _, want := range []string{"Jamie Vardy", "Harry Kane", "63", "17", "+3.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestPrintPlayerTable_Focus: every player is rendered and the focus row is marked.
func TestPrintPlayerTable_Focus(t *testing.T) {
	var buf bytes.Buffer
	PrintPlayerTable(&buf, players(), "Harry Kane")
	out := buf.String()
	for _, want := range []string{"Jamie Vardy", "Harry Kane", "75.0%", "OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Harry Kane") && !strings.Contains(line, ">") {
			t.Errorf("focus row not marked: %s", line)
		}
		if strings.Contains(line, "Jamie Vardy") && strings.Contains(line, ">") {
			t.Errorf("non-focus row marked: %s", line)
		}
	}
}

// TestPrintSummary_Boards: headcounts and each leaderboard title appear.
func TestPrintSummary_Boards(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, ranking.Summarize(players(), 5, 500))
	out := buf.String()
	for _, want := range []string{"Players: 2", "Top scorers", "Top assisters", "Most passes", "min 500 passes"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// TestPrintPlayerCard_AllColumns: the card lists every schema column.
func TestPrintPlayerCard_AllColumns(t *testing.T) {
	var buf bytes.Buffer
	PrintPlayerCard(&buf, players()[0])
	out := buf.String()
	for _, c := range model.Columns {
		if !strings.Contains(out, c.Name) {
			t.Errorf("card missing column %s", c.Name)
		}
	}
}

// TestSampleFlag: thresholds follow the summary match bands.
func TestSampleFlag(t *testing.T) {
	cases := map[int]string{0: "VERY_LOW", 9: "VERY_LOW", 10: "LOW", 19: "LOW", 20: "OK", 38: "OK"}
	for n, want := range cases {
		if got := sampleFlag(n); got != want {
			t.Errorf("sampleFlag(%d): want %s, got %s", n, want, got)
		}
	}
}

// TestPrintCompetitions: one row per competition season.
func TestPrintCompetitions(t *testing.T) {
	var buf bytes.Buffer
	PrintCompetitions(&buf, []statsbomb.Competition{
		{CompetitionID: 2, SeasonID: 27, CountryName: "England", CompetitionName: "Premier League", SeasonName: "2015/2016"},
		{CompetitionID: 11, SeasonID: 90, CountryName: "Spain", CompetitionName: "La Liga", SeasonName: "2020/2021"},
	})
	out := buf.String()
	for _, want := range []string{"Premier League", "2015/2016", "La Liga", "27"} {
		if !strings.Contains(out, want) {
			t.Errorf("competitions missing %q:\n%s", want, out)
		}
	}
}

// TestPrintRaw: cells and row count are printed; no rows prints a marker.
func TestPrintRaw(t *testing.T) {
	var buf bytes.Buffer
	PrintRaw(&buf, []string{"player_name", "goals_scored"}, [][]string{{"Harry Kane", "25"}, {"Jamie Vardy", "24"}})
	out := buf.String()
	for _, want := range []string{"Harry Kane", "24", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("raw table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintRaw(&buf, []string{"x"}, nil)
	if !strings.Contains(buf.String(), "(no rows)") {
		t.Errorf("empty result: got %q", buf.String())
	}
}
