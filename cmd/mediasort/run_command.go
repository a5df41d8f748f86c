package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/workflow"
)

type runFlags struct {
	table                string
	source               string
	dest                 string
	extension            string
	dryRun               bool
	organizeOnTagFailure bool
	noHistory            bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.table, "table", "", "Markdown table to process instead of the profile's table")
	cmd.Flags().StringVar(&f.source, "source", "", "Directory holding the numbered files")
	cmd.Flags().StringVar(&f.dest, "dest", "", "Destination root for area folders")
	cmd.Flags().StringVar(&f.extension, "ext", "", "Expected extension for tokens without one")
}

func (f *runFlags) options(cmd *cobra.Command) workflow.Options {
	opts := workflow.Options{
		TablePath:      f.table,
		SourceDir:      f.source,
		DestinationDir: f.dest,
		Extension:      f.extension,
		DryRun:         f.dryRun,
	}
	if flag := cmd.Flags().Lookup("organize-on-tag-failure"); flag != nil && flag.Changed {
		value := f.organizeOnTagFailure
		opts.OrganizeOnTagFailure = &value
	}
	return opts
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:       "run <profile>",
		Short:     "Tag, rename and file every row of a profile's table",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.ProfileNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runner, cleanup, err := ctx.newRunner(!flags.noHistory)
			if err != nil {
				return err
			}
			defer cleanup()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, runErr := runner.Run(signalCtx, args[0], flags.options(cmd))
			out := cmd.OutOrStdout()
			if result != nil {
				printRunResult(out, result, shouldColorize(out))
			}
			if runErr != nil {
				return runErr
			}
			if failed := result.Summary().Failed; failed > 0 && cfg.Policy.FailOnRowErrors && !result.Settings.DryRun {
				return &exitError{code: 2, message: fmt.Sprintf("%d row(s) failed; details in %s", failed, result.ArtifactPath)}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Resolve and check every row without changing any file")
	cmd.Flags().BoolVar(&flags.organizeOnTagFailure, "organize-on-tag-failure", false, "Move files even when writing metadata failed")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

func printRunResult(out io.Writer, result *workflow.Result, colorize bool) {
	s := result.Settings
	title := fmt.Sprintf("%s run %s", s.Profile, shortID(result.RunID))
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "Table:       %s\n", s.TablePath)
	fmt.Fprintf(out, "Source:      %s\n", s.SourceDir)
	fmt.Fprintf(out, "Destination: %s\n", s.DestinationDir)
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Report.RenderSummaryTable(colorize))
	if result.ArtifactPath != "" {
		fmt.Fprintf(out, "Error file:  %s\n", result.ArtifactPath)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
