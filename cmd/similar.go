package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/similarity"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	similarRole       string
	similarN          int
	similarMinMatches int
	similarRun        string
)

var similarCmd = &cobra.Command{
	Use:   "similar <player>",
	Short: "Find players with a similar statistical profile",
	Long: `Rank players by cosine similarity to the given player over standardized
per-match features (progression, shooting, passing, dribbling, defending,
physical, aerial). --role weights the feature groups for a position profile;
goalkeepers are compared on goalkeeping features only.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarRole, "role", "", "role profile: "+strings.Join(similarity.Roles(), ", "))
	similarCmd.Flags().IntVar(&similarN, "n", 10, "number of results")
	similarCmd.Flags().IntVar(&similarMinMatches, "min-matches", 5, "minimum matches played by candidates")
	similarCmd.Flags().StringVar(&similarRun, "run", "", "run ID prefix (default latest)")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(similarRun)
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

	target, err := similarity.Find(players, args[0])
	if err != nil {
		return err
	}
	results, err := similarity.Search(players, similarity.Query{
		Player:     target.Name,
		Role:       similarRole,
		N:          similarN,
		MinMatches: similarMinMatches,
	})
	if err != nil {
		return err
	}
	report.PrintSimilar(os.Stdout, target, results)
	return nil
}
