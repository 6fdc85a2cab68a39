package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbalzer/daiacheck/internal/history"
)

// NewHistoryCommand creates the history command group
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear recorded check runs",
		Long: `Manage the optional run-history database.

Recording is off by default; enable it in .daiacheck.yaml:

  history:
    enabled: true`,
	}

	cmd.PersistentFlags().String("db", "", "Path to the history database (default from config)")

	cmd.AddCommand(newHistoryStatsCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func newHistoryStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.GetStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runs:       %d\n", stats.Runs)
			fmt.Fprintf(out, "Assertions: %d\n", stats.Assertions)
			fmt.Fprintf(out, "Failures:   %d\n", stats.Failures)
			if stats.Runs > 0 {
				passed := stats.Assertions - stats.Failures
				rate := 0.0
				if stats.Assertions > 0 {
					rate = float64(passed) / float64(stats.Assertions) * 100
				}
				fmt.Fprintf(out, "Pass rate:  %.1f%%\n", rate)
				fmt.Fprintf(out, "Last run:   %s\n", stats.LastRun.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			keep, _ := cmd.Flags().GetInt("keep")
			var deleted int64
			if keep > 0 {
				deleted, err = store.Prune(cmd.Context(), keep)
			} else {
				deleted, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s)\n", deleted)
			return nil
		},
	}

	cmd.Flags().Int("keep", 0, "Keep the N most recent runs instead of deleting everything")

	return cmd
}

// openHistoryStore resolves the database path (--db beats config) and opens it.
func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.History.DBPath
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no history database configured")
	}

	return history.NewStore(dbPath)
}
