package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/parser"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/statsbomb"
)

// fetch command flags.
var (
	// fetchCompetition and fetchSeason select the season (0 = config value).
	fetchCompetition int
	fetchSeason      int
	// fetchLimit caps the number of matches fetched.
	fetchLimit int
	// fetchOut is the events file to write; its extension picks the format.
	fetchOut string
	// fetchListComps lists the available competitions instead of fetching.
	fetchListComps bool
)

// fetchCmd downloads a season of events from StatsBomb open data.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a season of StatsBomb open-data events",
	Long: `Lists the matches of a competition season on StatsBomb open data, downloads
the events of each match and writes them into one events file ready for
'fbmetrics aggregate'. A match whose events cannot be downloaded is logged and
skipped.

The output format follows the file name: .jsonl or .json for JSON lines, .csv
for CSV; a trailing .gz compresses the file.

Examples:
  # Premier League 2015/2016 (the default season)
  fbmetrics fetch --out data/pl_2015_2016.jsonl.gz

  # First five matches only, as CSV
  fbmetrics fetch --limit 5 --out data/sample.csv.gz

  # Available competitions and seasons
  fbmetrics fetch --list`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCompetition, "competition", 0, "StatsBomb competition id (default from config)")
	fetchCmd.Flags().IntVar(&fetchSeason, "season", 0, "StatsBomb season id (default from config)")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "fetch only the first N matches")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "events file to write (default <data_dir>/events_<competition>_<season>.jsonl.gz)")
	fetchCmd.Flags().BoolVar(&fetchListComps, "list", false, "list competitions and exit")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := statsbomb.NewClient(cfg.StatsBombBaseURL, cfg.RequestsPerMinute)

	if fetchListComps {
		comps, err := client.Competitions(ctx)
		if err != nil {
			return fmt.Errorf("list competitions: %w", err)
		}
		report.PrintCompetitions(os.Stdout, comps)
		return nil
	}

	comp, season := fetchCompetition, fetchSeason
	if comp <= 0 {
		comp = cfg.CompetitionID
	}
	if season <= 0 {
		season = cfg.SeasonID
	}
	out := fetchOut
	if out == "" {
		out = filepath.Join(cfg.DataDir, fmt.Sprintf("events_%d_%d.jsonl.gz", comp, season))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	w, err := parser.Create(out)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Fetching competition %d season %d into %s...\n", comp, season, out)
	res, err := client.FetchSeason(ctx, comp, season, fetchLimit, func(m statsbomb.Match, events []model.EventRecord) error {
		for i := range events {
			if err := w.Write(&events[i]); err != nil {
				return fmt.Errorf("write match %d: %w", m.MatchID, err)
			}
		}
		return nil
	})
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", out, cerr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nFetched %d/%d matches, %d events.\n", res.Fetched, res.Matches, res.Events)
	if len(res.Failed) > 0 {
		fmt.Fprintf(os.Stdout, "Skipped %d match(es): %v\n", len(res.Failed), res.Failed)
	}
	fmt.Fprintf(os.Stdout, "Next: fbmetrics aggregate %s\n", out)
	return nil
}
