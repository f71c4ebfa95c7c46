package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/services"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

func newHistoryCommand() *cobra.Command {
	var (
		asJSON   bool
		limit    uint64
		statuses []string
		suites   []string
		mode     string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the test cases of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, _ := cmd.Flags().GetString(config.FlagDataFolder)
			if folder == "" {
				return srvErrors.NewUsageError("history requires --%s", config.FlagDataFolder)
			}

			history, closeHistory, err := openHistory(cmd.Context(), folder)
			if err != nil {
				return err
			}
			defer closeHistory()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, records, err := history.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, map[string]any{"run": run, "results": records})
				}
				return printRun(out, run, records)
			}

			filter := services.HistoryFilter{Suites: suites, Mode: mode, Limit: limit}
			for _, s := range statuses {
				status, err := models.ParseRunStatus(s)
				if err != nil {
					return srvErrors.NewUsageError("%v", err)
				}
				filter.Status = append(filter.Status, status)
			}

			runs, err := history.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, runs)
			}
			return printRuns(out, runs)
		},
	}

	cmd.Flags().String(config.FlagDataFolder, "", "folder of the run history database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().Uint64Var(&limit, "limit", 20, "maximum number of runs")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only runs with this status (running, passed, failed, aborted)")
	cmd.Flags().StringSliceVar(&suites, "suite", nil, "only runs that executed this suite")
	cmd.Flags().StringVar(&mode, "run-mode", "", "only runs of this mode (cli or api)")
	return cmd
}

func printRuns(out io.Writer, runs []models.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tMODE\tSTATUS\tPASSED\tFAILED\tSKIPPED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Mode, r.Status, r.Passed, r.Failed, r.Skipped)
	}
	return w.Flush()
}

func printRun(out io.Writer, run *models.Run, records []models.TestRecord) error {
	fmt.Fprintf(out, "Run %s (%s, %s) against %s\n", run.ID, run.Mode, run.Status, run.Target)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUITE\tTEST\tOUTCOME\tMESSAGE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Suite, r.Name, r.Outcome, r.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Passed: %d, Failed: %d, Skipped: %d\n", run.Passed, run.Failed, run.Skipped)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
