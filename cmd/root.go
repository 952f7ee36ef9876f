package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/config"
	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// cfg is loaded once per invocation by PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fbmetrics",
	Short: "Football player season statistics",
	Long: `Aggregate StatsBomb event data into per-player season statistics:
fetch events, fold them into player totals, rank, export and query them.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.fbmetrics/metrics.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $FBMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers .env, the config file and env vars, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := logger.SetLevelString(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	dbPath = c.DBPath
	return nil
}

// openStore opens the run store, creating its directory on first use.
func openStore() (*storage.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
