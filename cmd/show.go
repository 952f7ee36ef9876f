package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	showPlayer string
	showTeam   string
	showLimit  int
	showView   string
)

var showCmd = &cobra.Command{
	Use:   "show [run-prefix]",
	Short: "Show the player table of a stored run",
	Long: `Show the player table of a stored run (the latest run when no prefix is
given), in report order: matches played, then events.

--player takes one name to highlight, or a comma-separated list to show only
those players. --view picks the table: overview (default), shooting or
defending.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight a player, or a comma-separated list to filter")
	showCmd.Flags().StringVar(&showTeam, "team", "", "only players of this team")
	showCmd.Flags().IntVar(&showLimit, "limit", 30, "max rows (0 = all)")
	showCmd.Flags().StringVar(&showView, "view", "overview", "overview, shooting or defending")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(prefix)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintf(os.Stderr, "No run found for %q. Run 'fbmetrics list' to see stored runs.\n", prefix)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}

	focus := showPlayer
	var players []*model.PlayerAggregate
	if names := splitList(showPlayer); len(names) > 1 {
		focus = ""
		players, err = db.PlayersByNames(run.RunID, names)
	} else {
		players, err = db.GetPlayerStats(run.RunID)
	}
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	if showTeam != "" {
		players = filterTeam(players, showTeam)
	}
	players = firstN(players, showLimit)

	report.PrintRunHeader(os.Stdout, *run)
	switch strings.ToLower(showView) {
	case "overview", "":
		report.PrintPlayerTable(os.Stdout, players, focus)
	case "shooting", "attack":
		report.PrintShootingTable(os.Stdout, players, focus)
	case "defending", "defense":
		report.PrintDefendingTable(os.Stdout, players, focus)
	default:
		return fmt.Errorf("unknown view %q (overview, shooting, defending)", showView)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func filterTeam(players []*model.PlayerAggregate, team string) []*model.PlayerAggregate {
	var out []*model.PlayerAggregate
	for _, p := range players {
		if strings.EqualFold(p.Team, team) {
			out = append(out, p)
		}
	}
	return out
}
