package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-football-metrics/internal/model"
)

// TeamTotalsForRun sums player rows per team, ordered by goals then xG.
// Players are grouped by their last recorded team.
func (db *DB) TeamTotalsForRun(runID string) ([]model.TeamTotals, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(1),
		       SUM(goals_scored), SUM(assists), SUM(shots_total), SUM(shots_on_target),
		       SUM(total_xg), SUM(passes_attempted), SUM(passes_completed),
		       SUM(yellow_cards), SUM(red_cards)
		FROM player_season_stats
		WHERE run_id = ?
		GROUP BY team
		ORDER BY SUM(goals_scored) DESC, SUM(total_xg) DESC, team`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamTotals
	for rows.Next() {
		var t model.TeamTotals
		if err := rows.Scan(&t.Team, &t.Players,
			&t.Goals, &t.Assists, &t.Shots, &t.ShotsOnTarget,
			&t.TotalXG, &t.PassesAttempted, &t.PassesCompleted,
			&t.YellowCards, &t.RedCards); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PlayersByNames returns the named players of a run in stored order.
// Unknown names are skipped.
func (db *DB) PlayersByNames(runID string, names []string) ([]*model.PlayerAggregate, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(names)+1)
	args = append(args, runID)
	for _, n := range names {
		args = append(args, n)
	}
	where := fmt.Sprintf(`WHERE run_id = ? AND player_name IN (%s) ORDER BY position`, placeholders(len(names)))
	return db.queryPlayers(where, args...)
}

// QueryRaw runs an arbitrary query and returns the column names and every
// row rendered as text. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
