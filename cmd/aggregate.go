package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/export"
	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/metrics"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/parser"
	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	aggFormat       string
	aggShards       int
	aggLimitMatches int
	aggOutDir       string
	aggNoStore      bool
	aggLabel        string
	aggMetricsFile  string
	aggForce        bool
	aggPlayer       string
	aggOrdered      bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <events-file>...",
	Short: "Aggregate event files into season player statistics",
	Long: `Parse one or more event files (CSV, CSV.gz, StatsBomb JSON or JSON lines),
fold every event into per-player season totals, print the season summary,
write the full, simple and top-scorers CSV views and store the run.

Files whose contents were already aggregated are not processed again unless
--force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAggregate,
}

func init() {
	f := aggregateCmd.Flags()
	f.StringVar(&aggFormat, "format", "auto", "input format: auto, csv or json")
	f.IntVar(&aggShards, "shards", 0, "parallel ingest shards (default from config)")
	f.IntVar(&aggLimitMatches, "limit-matches", 0, "only aggregate the first N matches (quick test mode)")
	f.StringVar(&aggOutDir, "out-dir", "", "directory for CSV exports (default data_dir)")
	f.BoolVar(&aggNoStore, "no-store", false, "do not save the run in the database")
	f.StringVar(&aggLabel, "label", "", "label stored with the run")
	f.StringVar(&aggMetricsFile, "metrics-file", "", "write ingest metrics in Prometheus text format")
	f.BoolVar(&aggForce, "force", false, "aggregate even if the input was already stored")
	f.StringVar(&aggPlayer, "player", "", "highlight a player in the printed table")
	f.BoolVar(&aggOrdered, "match-ordered", false, "input holds each match's events contiguously (as fetch writes it); --limit-matches then stops reading early")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("aggregate")

	format, err := parser.ParseFormat(aggFormat)
	if err != nil {
		return err
	}
	hash, err := parser.HashFiles(args)
	if err != nil {
		return err
	}

	var db *storage.DB
	if !aggNoStore {
		if db, err = openStore(); err != nil {
			return err
		}
		defer db.Close()
		if !aggForce && aggLimitMatches == 0 {
			existing, err := db.RunByInputHash(hash)
			if err != nil {
				return fmt.Errorf("check run: %w", err)
			}
			if existing != nil {
				fmt.Fprintf(os.Stdout, "Input already aggregated as run %s, showing stored results (use --force to re-run).\n\n", short(existing.RunID))
				return printStoredRun(db, existing, aggPlayer)
			}
		}
	}

	shards := aggShards
	if shards <= 0 {
		shards = cfg.Shards
	}
	outDir := aggOutDir
	if outDir == "" {
		outDir = cfg.DataDir
	}
	metricsFile := aggMetricsFile
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}

	m := metrics.NewManager()
	in := parser.OpenAll(args, format)
	defer in.Close()
	var src aggregator.EventSource = in
	switch {
	case aggLimitMatches > 0 && aggOrdered:
		src = parser.LimitOrderedMatches(in, aggLimitMatches)
	case aggLimitMatches > 0:
		src = parser.LimitMatches(in, aggLimitMatches)
	}

	fmt.Fprintf(os.Stdout, "Aggregating %d file(s)...\n", len(args))
	start := time.Now()
	store, err := aggregator.IngestSharded(ctx, src, shards, aggregator.WithObserver(m))
	if err != nil {
		return fmt.Errorf("ingest events: %w", err)
	}
	players := ranking.Sorted(store.Finalize())
	elapsed := time.Since(start)
	m.ObserveIngest(elapsed, len(players))

	st := store.Stats()
	log.Info(ctx, "aggregation done",
		logger.Int("events", st.Events),
		logger.Int("dropped", st.Dropped),
		logger.Int("unknown_types", st.Unknown),
		logger.Int("bad_locations", st.BadLocations),
		logger.Int("players", st.Players),
		logger.Int("matches", st.DistinctMatch),
		logger.Int("shards", shards),
		logger.Float64("seconds", elapsed.Seconds()))
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No player events found, nothing to export.")
		return nil
	}

	run := &model.RunSummary{
		Label:       aggLabel,
		InputHash:   hash,
		Competition: cfg.CompetitionID,
		Season:      cfg.SeasonID,
		Matches:     st.DistinctMatch,
		Events:      st.Events,
		Dropped:     st.Dropped,
		Players:     len(players),
	}
	if aggLimitMatches > 0 {
		// A partial run must not satisfy the idempotency check of a full one.
		run.InputHash = fmt.Sprintf("%s:limit=%d", hash, aggLimitMatches)
	}

	report.PrintPlayerTable(os.Stdout, firstN(players, cfg.TopN), aggPlayer)
	report.PrintSummary(os.Stdout, ranking.Summarize(players, cfg.SummaryTopN, cfg.MinPassesForAccuracy))

	files, err := export.WriteAll(outDir, cfg.OutputPrefix, players, cfg.TopN, time.Now())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nExported:\n  %s\n  %s\n  %s\n", files.Full, files.Simple, files.TopScorers)

	if db != nil {
		if err := db.SaveRun(run, players); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Stored run %s (%d players).\n", short(run.RunID), run.Players)
	}
	if metricsFile != "" {
		if err := m.WriteToTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// printStoredRun prints the header, player table and summary of a stored run.
func printStoredRun(db *storage.DB, run *model.RunSummary, focus string) error {
	players, err := db.GetPlayerStats(run.RunID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	report.PrintRunHeader(os.Stdout, *run)
	report.PrintPlayerTable(os.Stdout, firstN(players, cfg.TopN), focus)
	report.PrintSummary(os.Stdout, ranking.Summarize(players, cfg.SummaryTopN, cfg.MinPassesForAccuracy))
	return nil
}

func firstN(players []*model.PlayerAggregate, n int) []*model.PlayerAggregate {
	if n > 0 && len(players) > n {
		return players[:n]
	}
	return players
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
