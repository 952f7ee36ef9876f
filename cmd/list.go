package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored aggregation runs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'fbmetrics aggregate <events-file>' to add one.")
		return nil
	}
	report.PrintRunList(os.Stdout, runs)
	return nil
}
