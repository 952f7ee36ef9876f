package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-football-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func player(name, team string, goals, passes, completed int, matches ...string) *model.PlayerAggregate {
	p := model.NewPlayerAggregate(name, "id-"+name, team)
	for _, m := range matches {
		p.AddMatch(m)
	}
	p.GoalsScored = goals
	p.ShotsTotal = goals * 2
	p.ShotsOnTarget = goals
	p.TotalXG = float64(goals) * 0.5
	p.PassesAttempted = passes
	p.PassesCompleted = completed
	p.PassesFailed = passes - completed
	p.AddPosition(60, 40)
	p.Finalize()
	return p
}

func saveSample(t *testing.T, db *DB, label, created string) *model.RunSummary {
	t.Helper()
	run := &model.RunSummary{
		Label:       label,
		InputHash:   "hash-" + label,
		CreatedAt:   created,
		Competition: 2,
		Season:      27,
		Matches:     3,
		Events:      1200,
		Dropped:     4,
	}
	players := []*model.PlayerAggregate{
		player("Jamie Vardy", "Leicester City", 24, 300, 200, "m1", "m2", "m3"),
		player("Riyad Mahrez", "Leicester City", 17, 900, 700, "m1", "m2"),
		player("Harry Kane", "Tottenham Hotspur", 25, 500, 350, "m1"),
	}
	if err := db.SaveRun(run, players); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	return run
}

// ---- run tests ----

// TestSaveRun_AssignsIDAndCounts: a run without an id gets a uuid and the
// player count.
func TestSaveRun_AssignsIDAndCounts(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	if len(run.RunID) != 36 {
		t.Errorf("RunID: want uuid, got %q", run.RunID)
	}
	if run.Players != 3 {
		t.Errorf("Players: want 3, got %d", run.Players)
	}

	got, err := db.GetRunByPrefix(run.RunID[:8])
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if got == nil {
		t.Fatal("expected run by prefix")
	}
	if *got != *run {
		t.Errorf("stored run: want %+v, got %+v", *run, *got)
	}

	missing, err := db.GetRunByPrefix("zzzz")
	if err != nil || missing != nil {
		t.Errorf("unknown prefix: want nil,nil, got %v,%v", missing, err)
	}
}

// TestListRuns_NewestFirst: runs come back ordered by creation time desc.
func TestListRuns_NewestFirst(t *testing.T) {
	db := openMemDB(t)
	saveSample(t, db, "old", "2016-01-01T00:00:00Z")
	saveSample(t, db, "new", "2016-06-01T00:00:00Z")

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: want 2, got %d", len(runs))
	}
	if runs[0].Label != "new" || runs[1].Label != "old" {
		t.Errorf("order: got %s, %s", runs[0].Label, runs[1].Label)
	}

	latest, err := db.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.Label != "new" {
		t.Errorf("LatestRun: want new, got %s", latest.Label)
	}
}

// TestResolveRun_Empty: an empty store reports ErrNoRuns.
func TestResolveRun_Empty(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.ResolveRun(""); !errors.Is(err, ErrNoRuns) {
		t.Errorf("ResolveRun(\"\"): want ErrNoRuns, got %v", err)
	}
	saveSample(t, db, "pl", "2016-05-17T10:00:00Z")
	if _, err := db.ResolveRun("nope"); !errors.Is(err, ErrNoRuns) {
		t.Errorf("ResolveRun(nope): want ErrNoRuns, got %v", err)
	}
}

// TestRunByInputHash: the idempotency key finds a stored run.
func TestRunByInputHash(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	got, err := db.RunByInputHash("hash-pl")
	if err != nil {
		t.Fatalf("RunByInputHash: %v", err)
	}
	if got == nil || got.RunID != run.RunID {
		t.Errorf("RunByInputHash: want %s, got %+v", run.RunID, got)
	}
	none, err := db.RunByInputHash("other")
	if err != nil || none != nil {
		t.Errorf("unknown hash: want nil,nil, got %v,%v", none, err)
	}
}

// TestDeleteRun: players go with the run; deleting twice fails.
func TestDeleteRun(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	if err := db.DeleteRun(run.RunID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("players after delete: want 0, got %d", len(players))
	}
	if err := db.DeleteRun(run.RunID); !errors.Is(err, ErrNoRuns) {
		t.Errorf("second delete: want ErrNoRuns, got %v", err)
	}
}

// ---- player row tests ----

// TestGetPlayerStats_RoundTrip: every column survives storage and order is kept.
func TestGetPlayerStats_RoundTrip(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("players: want 3, got %d", len(players))
	}
	if players[0].Name != "Jamie Vardy" || players[2].Name != "Harry Kane" {
		t.Errorf("order: got %s .. %s", players[0].Name, players[2].Name)
	}

	want := player("Riyad Mahrez", "Leicester City", 17, 900, 700, "m1", "m2")
	got := players[1]
	for _, c := range model.Columns {
		if c.Format(got) != c.Format(want) {
			t.Errorf("%s: want %s, got %s", c.Name, c.Format(want), c.Format(got))
		}
	}
	if !got.Finalized() {
		t.Error("loaded rows should be finalized")
	}
	if got.MatchCount() != 2 {
		t.Errorf("MatchCount: want 2, got %d", got.MatchCount())
	}
}

// TestSaveRun_Replace: saving the same run id again replaces its rows.
func TestSaveRun_Replace(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	again := *run
	if err := db.SaveRun(&again, []*model.PlayerAggregate{player("N'Golo Kante", "Leicester City", 1, 1500, 1300, "m1")}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(players) != 1 || players[0].Name != "N'Golo Kante" {
		t.Errorf("replaced rows: got %d players", len(players))
	}
}

// TestGetPlayer_Lookup: exact, partial and ambiguous names.
func TestGetPlayer_Lookup(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	p, err := db.GetPlayer(run.RunID, "Harry Kane")
	if err != nil || p == nil || p.GoalsScored != 25 {
		t.Fatalf("exact: got %+v, %v", p, err)
	}
	p, err = db.GetPlayer(run.RunID, "mahrez")
	if err != nil || p == nil || p.Name != "Riyad Mahrez" {
		t.Errorf("partial: got %+v, %v", p, err)
	}
	p, err = db.GetPlayer(run.RunID, "Messi")
	if err != nil || p != nil {
		t.Errorf("missing: want nil,nil, got %+v, %v", p, err)
	}
	if _, err := db.GetPlayer(run.RunID, "a"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("ambiguous: got %v", err)
	}
}

// TestPlayersByNames: IN-list lookup skips unknown names.
func TestPlayersByNames(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	players, err := db.PlayersByNames(run.RunID, []string{"Harry Kane", "Nobody", "Jamie Vardy"})
	if err != nil {
		t.Fatalf("PlayersByNames: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Jamie Vardy" {
		t.Errorf("PlayersByNames: got %d players", len(players))
	}
	none, err := db.PlayersByNames(run.RunID, nil)
	if err != nil || none != nil {
		t.Errorf("empty names: got %v, %v", none, err)
	}
}

// ---- team and raw query tests ----

// TestTeamTotalsForRun: players are summed per team, best scoring team first.
func TestTeamTotalsForRun(t *testing.T) {
	db := openMemDB(t)
	run := saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	teams, err := db.TeamTotalsForRun(run.RunID)
	if err != nil {
		t.Fatalf("TeamTotalsForRun: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("teams: want 2, got %d", len(teams))
	}
	lei := teams[0]
	if lei.Team != "Leicester City" || lei.Players != 2 || lei.Goals != 41 {
		t.Errorf("Leicester: got %+v", lei)
	}
	if lei.PassesAttempted != 1200 || lei.PassesCompleted != 900 {
		t.Errorf("passes: want 1200/900, got %d/%d", lei.PassesAttempted, lei.PassesCompleted)
	}
	if lei.PassCompletionRate() != 75 {
		t.Errorf("PassCompletionRate: want 75, got %v", lei.PassCompletionRate())
	}
}

// TestQueryRaw: column names and text rendering.
func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	saveSample(t, db, "pl", "2016-05-17T10:00:00Z")

	cols, rows, err := db.QueryRaw(`SELECT player_name, goals_scored, NULL AS empty_col
		FROM player_season_stats ORDER BY goals_scored DESC LIMIT 1`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if strings.Join(cols, ",") != "player_name,goals_scored,empty_col" {
		t.Errorf("cols: got %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Harry Kane" || rows[0][1] != "25" || rows[0][2] != "NULL" {
		t.Errorf("rows: got %v", rows)
	}
	if _, _, err := db.QueryRaw("SELEC nope"); err == nil {
		t.Error("expected syntax error")
	}
}

// TestSchemaMatchesColumns: the table carries every export column.
func TestSchemaMatchesColumns(t *testing.T) {
	db := openMemDB(t)
	_, rows, err := db.QueryRaw(`SELECT name FROM pragma_table_info('player_season_stats')`)
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	have := map[string]bool{}
	for _, r := range rows {
		have[r[0]] = true
	}
	for _, c := range model.Columns {
		if !have[c.Name] {
			t.Errorf("column %s missing from schema", c.Name)
		}
	}
}

// TestOpen_SchemaVersion: reopening keeps the version; a foreign version is rejected.
func TestOpen_SchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var version int
	if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("user_version: want %d, got %d", SchemaVersion, version)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	db.Close()

	raw, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("raw open: %v", err)
	}
	if _, err := raw.Exec(`PRAGMA user_version = 99`); err != nil {
		t.Fatalf("set version: %v", err)
	}
	raw.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaVersion) {
		t.Errorf("Open: want ErrSchemaVersion, got %v", err)
	}
}
