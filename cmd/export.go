package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/export"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
)

var (
	exportView    string
	exportTeam    string
	exportPlayers string
	exportRoster  string
	exportJSON    bool
	exportOut     string
	exportAll     bool
)

// rosterFile is the schema for --roster JSON files.
type rosterFile struct {
	Team    string   `json:"team"`
	Players []string `json:"players"`
}

var exportCmd = &cobra.Command{
	Use:   "export [run-prefix]",
	Short: "Re-export a stored run as CSV or JSON",
	Long: `Write one view of a stored run (the latest when no prefix is given) without
re-aggregating the events. Views: full, simple, top_scorers.

Restrict the rows with --team, --players (comma-separated names) or --roster
(a JSON file {"team": "...", "players": ["..."]}); --players takes precedence
over the roster list.

--all writes the three CSV views into data_dir with timestamped names, the
same files 'aggregate' produces.

Example:
  fbmetrics export --view simple --team "Leicester City" --out leicester.csv
  fbmetrics export --json --roster roster.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportView, "view", "full", "full, simple or top_scorers")
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "only players of this team")
	exportCmd.Flags().StringVar(&exportPlayers, "players", "", "comma-separated player names")
	exportCmd.Flags().StringVar(&exportRoster, "roster", "", "JSON roster file")
	exportCmd.Flags().BoolVar(&exportJSON, "json", false, "write a JSON array instead of CSV")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "write all CSV views into data_dir")
}

func runExport(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	view, ok := export.ViewByName(exportView)
	if !ok {
		return fmt.Errorf("unknown view %q (full, simple, top_scorers)", exportView)
	}

	team := exportTeam
	names := splitList(exportPlayers)
	if exportRoster != "" {
		roster, err := readRoster(exportRoster)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			names = roster.Players
		}
		if team == "" && len(names) == 0 {
			team = roster.Team
		}
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(prefix)
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}
	var players []*model.PlayerAggregate
	if len(names) > 0 {
		players, err = db.PlayersByNames(run.RunID, names)
	} else {
		players, err = db.GetPlayerStats(run.RunID)
	}
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	if team != "" {
		players = filterTeam(players, team)
	}

	if exportAll {
		files, err := export.WriteAll(cfg.DataDir, cfg.OutputPrefix, players, cfg.TopN, time.Now())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exported:\n  %s\n  %s\n  %s\n", files.Full, files.Simple, files.TopScorers)
		return nil
	}

	if view.Name == export.TopScorers.Name {
		if players, err = ranking.TopBy(players, "goals_scored", cfg.TopN, 0); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}
	if exportJSON {
		err = export.WriteJSON(w, view.Columns, players)
	} else {
		err = export.WriteCSV(w, view.Columns, players)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", view.Name, err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d players to %s\n", len(players), exportOut)
	}
	return nil
}

func readRoster(path string) (*rosterFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r rosterFile
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return &r, nil
}
