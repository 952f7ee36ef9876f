package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	topN         int
	topMinPasses int
	topRun       string
	topTeam      string
)

var topCmd = &cobra.Command{
	Use:   "top <metric>",
	Short: "Rank players by any numeric column",
	Long: `Rank the players of a stored run by one numeric column of the player table,
e.g. goals_scored, total_xg, pass_completion_rate, tackles_won.

--min-passes drops players with fewer passes attempted, which keeps low-volume
players out of rate leaderboards.`,
	Args: cobra.ExactArgs(1),
	RunE: runTop,
}

func init() {
	topCmd.Flags().IntVar(&topN, "n", 0, "number of players (default top_n from config)")
	topCmd.Flags().IntVar(&topMinPasses, "min-passes", 0, "minimum passes attempted")
	topCmd.Flags().StringVar(&topRun, "run", "", "run ID prefix (default latest)")
	topCmd.Flags().StringVar(&topTeam, "team", "", "only players of this team")
}

func runTop(cmd *cobra.Command, args []string) error {
	col, err := ranking.Metric(args[0])
	if err != nil {
		return err
	}
	n := topN
	if n <= 0 {
		n = cfg.TopN
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(topRun)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintln(os.Stderr, "No runs stored yet. Run 'fbmetrics aggregate <events-file>' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}
	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	if topTeam != "" {
		players = filterTeam(players, topTeam)
	}

	leaders, err := ranking.TopBy(players, col.Name, n, topMinPasses)
	if err != nil {
		return err
	}
	report.PrintRunHeader(os.Stdout, *run)
	if topMinPasses > 0 {
		fmt.Fprintf(os.Stdout, "Players with at least %d passes attempted.\n\n", topMinPasses)
	}
	report.PrintLeaders(os.Stdout, col, leaders)
	return nil
}
