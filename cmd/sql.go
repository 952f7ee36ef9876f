package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  runs(run_id, label, input_hash, created_at, competition_id, season_id,
    matches, events, dropped_events, players)
  player_season_stats(run_id, position, player_name, player_id, team,
    matches_played, total_events, passes_attempted, ..., goals_scored,
    total_xg, ..., assists_per_game)

Every column of the player table is a column of player_season_stats; position
is the report order within the run.

Example:
  fbmetrics sql "SELECT player_name, goals_scored, total_xg FROM player_season_stats
    WHERE run_id LIKE 'a1b2%' ORDER BY total_xg DESC LIMIT 10"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
