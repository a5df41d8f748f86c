package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past runs",
	}
	list := newHistoryListCommand(ctx)
	historyCmd.RunE = list.RunE
	historyCmd.Flags().AddFlagSet(list.Flags())

	historyCmd.AddCommand(list)
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Profile,
					yesNo(run.DryRun),
					strconv.Itoa(run.Summary.Processed),
					strconv.Itoa(run.Summary.Succeeded),
					strconv.Itoa(run.Summary.Failed),
					run.Duration().Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Profile", "Dry run", "Processed", "Succeeded", "Failed", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

type runJSON struct {
	ID             string           `json:"id"`
	Profile        string           `json:"profile"`
	TablePath      string           `json:"table_path,omitempty"`
	SourceDir      string           `json:"source_dir,omitempty"`
	DestinationDir string           `json:"destination_dir,omitempty"`
	DryRun         bool             `json:"dry_run"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	Summary        report.Summary   `json:"summary"`
	Outcomes       []report.Outcome `json:"outcomes"`
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the rows of one run (a unique id prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, outcomes, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runJSON{
					ID:             run.ID,
					Profile:        run.Profile,
					TablePath:      run.TablePath,
					SourceDir:      run.SourceDir,
					DestinationDir: run.DestinationDir,
					DryRun:         run.DryRun,
					StartedAt:      run.StartedAt,
					FinishedAt:     run.FinishedAt,
					Summary:        run.Summary,
					Outcomes:       outcomes,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:         %s\n", run.ID)
			fmt.Fprintf(out, "Profile:     %s\n", run.Profile)
			fmt.Fprintf(out, "Started:     %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Dry run:     %s\n", yesNo(run.DryRun))
			fmt.Fprintf(out, "Table:       %s\n", run.TablePath)
			fmt.Fprintf(out, "Summary:     %d processed, %d succeeded, %d failed\n",
				run.Summary.Processed, run.Summary.Succeeded, run.Summary.Failed)

			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				detail := o.FinalPath
				if o.Failed() {
					detail = o.Stage + ": " + o.Reason
				} else if o.Warning != "" {
					detail += " (warning: " + o.Warning + ")"
				}
				rows = append(rows, []string{strconv.Itoa(o.Row), o.Label(), string(o.Status), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Row", "Token", "Status", "Detail"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")
	return cmd
}
