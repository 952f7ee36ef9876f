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
	summaryTopN      int
	summaryMinPasses int
	summaryTeams     bool
)

// summaryCmd prints the season overview of a stored run.
var summaryCmd = &cobra.Command{
	Use:   "summary [run-prefix]",
	Short: "Show the season summary of a stored run",
	Long: `Display the season overview of a stored run (the latest when no prefix is
given): player counts by matches played, total goals and xG, and the top
scorers, assisters, passers and pass completion leaders.

The pass completion board only ranks players with at least
min_passes_for_accuracy passes attempted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTopN, "n", 0, "entries per board (default summary_top_n from config)")
	summaryCmd.Flags().IntVar(&summaryMinPasses, "min-passes", -1, "pass completion volume floor (default from config)")
	summaryCmd.Flags().BoolVar(&summaryTeams, "teams", false, "also print per-team totals")
}

func runSummary(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	n := summaryTopN
	if n <= 0 {
		n = cfg.SummaryTopN
	}
	minPasses := summaryMinPasses
	if minPasses < 0 {
		minPasses = cfg.MinPassesForAccuracy
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(prefix)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'fbmetrics aggregate <events-file>' to add one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}
	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintRunHeader(os.Stdout, *run)
	report.PrintSummary(os.Stdout, ranking.Summarize(players, n, minPasses))

	if summaryTeams {
		teams, err := db.TeamTotalsForRun(run.RunID)
		if err != nil {
			return fmt.Errorf("team totals: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
		report.PrintTeamTable(os.Stdout, teams)
	}
	return nil
}
