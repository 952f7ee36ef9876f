package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-football-metrics/internal/model"
)

const runColumns = `run_id, label, input_hash, created_at, competition_id, season_id,
	matches, events, dropped_events, players`

// statColumns lists the player_season_stats value columns in schema order.
var statColumns = model.ColumnNames(model.Columns)

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.RunSummary, error) {
	var r model.RunSummary
	err := row.Scan(&r.RunID, &r.Label, &r.InputHash, &r.CreatedAt, &r.Competition, &r.Season,
		&r.Matches, &r.Events, &r.Dropped, &r.Players)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RunByInputHash returns the most recent run built from the given input hash,
// or nil if there is none.
func (db *DB) RunByInputHash(hash string) (*model.RunSummary, error) {
	r, err := scanRun(db.conn.QueryRow(`
		SELECT `+runColumns+`
		FROM runs WHERE input_hash = ? ORDER BY created_at DESC LIMIT 1`, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// SaveRun stores a run and its finalized player rows in one transaction. The
// row order of players is kept as the run's canonical order. A missing RunID
// or CreatedAt is filled in on run.
func (db *DB) SaveRun(run *model.RunSummary, players []*model.PlayerAggregate) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	run.Players = len(players)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs(`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Label, run.InputHash, run.CreatedAt, run.Competition, run.Season,
		run.Matches, run.Events, run.Dropped, run.Players,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	// INSERT OR REPLACE on the run row does not clear rows of a previous save.
	if _, err := tx.Exec(`DELETE FROM player_season_stats WHERE run_id = ?`, run.RunID); err != nil {
		return fmt.Errorf("clear player_season_stats: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT OR REPLACE INTO player_season_stats(run_id, position, %s)
		VALUES (?, ?, %s)`,
		strings.Join(statColumns, ", "), placeholders(len(statColumns))))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, 2+len(model.Columns))
	for i, p := range players {
		args[0], args[1] = run.RunID, i
		for j, c := range model.Columns {
			args[2+j] = c.Value(p)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert player_season_stats for %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the first run whose id starts with the given prefix.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	r, err := scanRun(db.conn.QueryRow(`
		SELECT `+runColumns+`
		FROM runs WHERE run_id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// LatestRun returns the newest run or ErrNoRuns.
func (db *DB) LatestRun() (*model.RunSummary, error) {
	r, err := scanRun(db.conn.QueryRow(`
		SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	return r, err
}

// ResolveRun returns the run matching prefix, or the latest run when prefix
// is empty.
func (db *DB) ResolveRun(prefix string) (*model.RunSummary, error) {
	if prefix == "" {
		return db.LatestRun()
	}
	r, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: prefix %q", ErrNoRuns, prefix)
	}
	return r, nil
}

// DeleteRun removes a run and its player rows.
func (db *DB) DeleteRun(runID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM player_season_stats WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete player rows: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoRuns, runID)
	}
	return tx.Commit()
}

// GetPlayerStats returns the finalized player rows of a run in stored order.
func (db *DB) GetPlayerStats(runID string) ([]*model.PlayerAggregate, error) {
	return db.queryPlayers(`WHERE run_id = ? ORDER BY position`, runID)
}

// GetPlayer returns one player of a run by exact name, falling back to a
// case-insensitive substring match when it is unambiguous. It returns nil if
// nothing matches.
func (db *DB) GetPlayer(runID, name string) (*model.PlayerAggregate, error) {
	out, err := db.queryPlayers(`WHERE run_id = ? AND player_name = ?`, runID, name)
	if err != nil || len(out) > 0 {
		return first(out), err
	}
	out, err = db.FindPlayers(runID, name)
	if err != nil {
		return nil, err
	}
	if len(out) > 1 {
		names := make([]string, len(out))
		for i, p := range out {
			names[i] = p.Name
		}
		return nil, fmt.Errorf("player %q is ambiguous: %s", name, strings.Join(names, ", "))
	}
	return first(out), nil
}

// FindPlayers returns the players of a run whose name contains query,
// ignoring case.
func (db *DB) FindPlayers(runID, query string) ([]*model.PlayerAggregate, error) {
	return db.queryPlayers(`WHERE run_id = ? AND player_name LIKE ? ORDER BY position`,
		runID, "%"+query+"%")
}

func (db *DB) queryPlayers(where string, args ...any) ([]*model.PlayerAggregate, error) {
	rows, err := db.conn.Query(`SELECT `+strings.Join(statColumns, ", ")+`
		FROM player_season_stats `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PlayerAggregate
	dest := make([]any, len(model.Columns))
	for rows.Next() {
		p := &model.PlayerAggregate{}
		for i, c := range model.Columns {
			dest[i] = c.Field(p)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p.MarkFinalized()
		out = append(out, p)
	}
	return out, rows.Err()
}

func first(players []*model.PlayerAggregate) *model.PlayerAggregate {
	if len(players) == 0 {
		return nil
	}
	return players[0]
}
