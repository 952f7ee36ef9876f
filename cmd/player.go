package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/storage"
)

var playerRun string

// playerCmd prints the stat card of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Season stat card for one or more players",
	Long: `Print every column of each named player's season row. A name may be a unique
substring (e.g. "Kante"). With more than one player a side-by-side overview
table follows the cards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerRun, "run", "", "run ID prefix (default latest)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(playerRun)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintln(os.Stderr, "No runs stored yet. Run 'fbmetrics aggregate <events-file>' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}

	var found []*model.PlayerAggregate
	for _, name := range args {
		p, err := db.GetPlayer(run.RunID, name)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintf(os.Stderr, "No player matching %q in run %s\n", name, short(run.RunID))
			continue
		}
		found = append(found, p)
	}
	if len(found) == 0 {
		return nil
	}

	report.PrintRunHeader(os.Stdout, *run)
	for _, p := range found {
		fmt.Fprintf(os.Stdout, "=== %s (%s) ===\n", p.Name, p.Team)
		report.PrintPlayerCard(os.Stdout, p)
		fmt.Fprintln(os.Stdout)
	}
	if len(found) > 1 {
		report.PrintPlayerTable(os.Stdout, found, "")
		report.PrintShootingTable(os.Stdout, found, "")
		report.PrintDefendingTable(os.Stdout, found, "")
	}
	return nil
}
