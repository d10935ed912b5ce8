// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"featex/internal/history"
	"featex/pkg/types"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded batch runs",
	Long: `History lists past batch runs from the run history database, newest first.
With a run ID argument it shows the per-file outcomes of that run instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if cfg.Paths.HistoryDB == "" {
			return fmt.Errorf("run history is disabled (paths.history_db is empty)")
		}

		store, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			outcomes, err := store.Outcomes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				return fmt.Errorf("no outcomes recorded for run %s", args[0])
			}
			return printOutcomes(outcomes)
		}

		runs, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		return printRuns(runs)
	},
}

func printRuns(runs []types.BatchSummary) error {
	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tFILES\tOK\tFAILED\tRATE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
			r.RunID,
			r.StartedAt.Local().Format(time.DateTime),
			r.TotalFiles,
			r.SuccessCount,
			r.ErrorCount,
			r.SuccessRate*100,
		)
	}
	return w.Flush()
}

func printOutcomes(outcomes []types.ProcessingOutcome) error {
	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATUS\tFEATURES\tERROR")
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.File, status, o.FeaturesFound, o.Error)
	}
	return w.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit JSON instead of a table")

	rootCmd.AddCommand(historyCmd)
}
