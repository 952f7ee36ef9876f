package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	dropForce bool
	dropRun   string
)

// dropCmd deletes one stored run or the whole metrics database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete a stored run or the whole metrics database",
	Long: `Permanently delete the SQLite metrics database. All stored runs will be lost;
re-run 'fbmetrics aggregate' afterwards to rebuild.

With --run only that run and its player rows are deleted.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropRun, "run", "", "delete only the run with this ID prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropRun != "" {
		return dropOneRun(dropRun)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				if p == dbPath {
					fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
					return nil
				}
				continue
			}
			return fmt.Errorf("remove database: %w", err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneRun(prefix string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(prefix)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Fprintf(os.Stderr, "No run found with prefix %q\n", prefix)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete run %s (%d players).\n", short(run.RunID), run.Players)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteRun(run.RunID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted run %s\n", short(run.RunID))
	return nil
}
