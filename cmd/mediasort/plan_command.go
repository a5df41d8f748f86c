package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/workflow"
)

type planEntryJSON struct {
	Row         int    `json:"row"`
	Token       string `json:"token"`
	Name        string `json:"name"`
	Source      string `json:"source,omitempty"`
	CaptureDate string `json:"capture_date,omitempty"`
	Target      string `json:"target,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Problem     string `json:"problem,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "plan <profile>",
		Short:     "Preview where every row would go without touching any file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.ProfileNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			plan, err := workflow.NewRunner(cfg, logger).Plan(cmd.Context(), args[0], flags.options(cmd))
			if err != nil {
				return err
			}

			if asJSON {
				entries := make([]planEntryJSON, 0, len(plan.Entries))
				for _, e := range plan.Entries {
					item := planEntryJSON{
						Row:     e.Row.Index,
						Token:   e.Row.FileToken,
						Name:    e.Row.SuggestedName,
						Source:  e.Source,
						Target:  e.Target,
						Stage:   e.Stage,
						Problem: e.Problem,
					}
					if !e.CaptureDate.IsZero() {
						item.CaptureDate = e.CaptureDate.Format("2006-01-02 15:04:05")
					}
					entries = append(entries, item)
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(plan.Entries))
			for _, e := range plan.Entries {
				captured := "-"
				if !e.CaptureDate.IsZero() {
					captured = e.CaptureDate.Format("2006-01-02 15:04")
				}
				source, target := "-", "-"
				if e.Source != "" {
					source = filepath.Base(e.Source)
				}
				if e.Target != "" {
					if rel, err := filepath.Rel(plan.Settings.DestinationDir, e.Target); err == nil {
						target = rel
					} else {
						target = e.Target
					}
				}
				problem := ""
				if !e.OK() {
					problem = e.Stage + ": " + e.Problem
				}
				rows = append(rows, []string{strconv.Itoa(e.Row.Index), e.Row.Label(), source, captured, target, problem})
			}
			fmt.Fprintf(out, "Plan for %s (%s -> %s)\n", plan.Settings.Profile, plan.Settings.SourceDir, plan.Settings.DestinationDir)
			fmt.Fprintln(out, renderTable(
				[]string{"Row", "Token", "File", "Captured", "Target", "Problem"},
				rows,
				[]columnAlignment{alignRight},
			))
			fmt.Fprintf(out, "%d row(s), %d problem(s)\n", len(plan.Entries), plan.Problems())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}
