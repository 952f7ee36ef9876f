package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-football-metrics/internal/model"
)

func finalized(name string, goals, matches int) *model.PlayerAggregate {
	p := model.NewPlayerAggregate(name, "1", "Arsenal")
	for i := 0; i < matches; i++ {
		p.AddMatch(string(rune('a' + i)))
	}
	p.GoalsScored = goals
	p.ShotsTotal = goals * 3
	p.ShotsOnTarget = goals
	p.TotalXG = 0.25
	p.Finalize()
	return p
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteCSV_HeaderMatchesSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, model.Columns, []*model.PlayerAggregate{finalized("Harry Kane", 25, 38)}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: want 2, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(model.ColumnNames(model.Columns), ",") {
		t.Errorf("header does not follow schema order: %v", rows[0])
	}
	get := func(col string) string {
		for i, h := range rows[0] {
			if h == col {
				return rows[1][i]
			}
		}
		return "<missing>"
	}
	if get("goals_scored") != "25" || get("matches_played") != "38" || get("total_xg") != "0.25" {
		t.Errorf("values: goals=%s matches=%s xg=%s", get("goals_scored"), get("matches_played"), get("total_xg"))
	}
}

func TestWriteAll_ThreeViews(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2016, 5, 15, 17, 4, 5, 0, time.UTC)
	players := []*model.PlayerAggregate{
		finalized("Jamie Vardy", 24, 36),
		finalized("Riyad Mahrez", 17, 37),
		finalized("Harry Kane", 25, 38),
	}

	files, err := WriteAll(dir, "pl_2015_2016", players, 2, now)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if filepath.Base(files.Full) != "pl_2015_2016_player_stats_full_20160515_170405.csv" {
		t.Errorf("full name: got %s", filepath.Base(files.Full))
	}
	if filepath.Base(files.TopScorers) != "pl_2015_2016_top_scorers_20160515_170405.csv" {
		t.Errorf("top scorers name: got %s", filepath.Base(files.TopScorers))
	}

	simple := readCSV(t, files.Simple)
	if len(simple[0]) != 27 {
		t.Errorf("simple columns: want 27, got %d", len(simple[0]))
	}
	if len(simple) != 4 || simple[1][0] != "Jamie Vardy" {
		t.Errorf("simple rows should keep input order, got %v", simple)
	}

	top := readCSV(t, files.TopScorers)
	if len(top) != 3 {
		t.Fatalf("top scorers rows: want 3, got %d", len(top))
	}
	if top[1][0] != "Harry Kane" || top[2][0] != "Jamie Vardy" {
		t.Errorf("top scorers order: got %s, %s", top[1][0], top[2][0])
	}
	if strings.Join(top[0], ",") != strings.Join(model.TopScorerColumnNames, ",") {
		t.Errorf("top scorers header: got %v", top[0])
	}
}

func TestWriteJSON_KeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Simple.Columns, []*model.PlayerAggregate{finalized("Dimitri Payet", 9, 30)}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rows) != 1 || rows[0]["goals_scored"].(float64) != 9 {
		t.Errorf("rows: got %v", rows)
	}
	if i, j := strings.Index(buf.String(), `"player_name"`), strings.Index(buf.String(), `"assists_per_game"`); i > j {
		t.Error("keys not in schema order")
	}
}

func TestFileName_NoPrefix(t *testing.T) {
	got := FileName("", "top_scorers", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))
	if got != "top_scorers_20200102_030405.csv" {
		t.Errorf("FileName: got %s", got)
	}
}

func TestViewByName(t *testing.T) {
	for name, want := range map[string]string{
		"full":                "player_stats_full",
		"simple":              "player_stats_simple",
		"player_stats_simple": "player_stats_simple",
		"top_scorers":         "top_scorers",
	} {
		v, ok := ViewByName(name)
		if !ok || v.Name != want {
			t.Errorf("ViewByName(%q): want %s, got %s (%v)", name, want, v.Name, ok)
		}
	}
	if _, ok := ViewByName("wide"); ok {
		t.Error("unknown view should not resolve")
	}
}
