package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [profile]",
		Short: "Verify the tagging tool and directory access for one or all profiles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names := config.ProfileNames()
			if len(args) == 1 {
				names = args[:1]
			}

			client, err := ctx.exifToolClient()
			if err != nil {
				return err
			}
			var tool preflight.VersionChecker
			if client != nil {
				tool = client
			}

			out := cmd.OutOrStdout()
			failures := 0
			for _, name := range names {
				profile, err := cfg.Profile(name)
				if err != nil {
					return err
				}
				results := preflight.RunAll(cmd.Context(), profile, preflight.Options{Tool: tool, TablePath: profile.Table})
				if tool == nil {
					results = append(results, preflight.Result{
						Name:   "ExifTool",
						Detail: fmt.Sprintf("binary %q not found", cfg.ExifToolBinary()),
					})
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Name, passLabel(r.Passed), r.Detail})
				}
				fmt.Fprintf(out, "%s\n", profile.Name)
				fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
				failures += len(preflight.Failed(results))
			}
			if failures > 0 {
				return &exitError{code: 1, message: fmt.Sprintf("%d check(s) failed", failures)}
			}
			return nil
		},
	}
}

func passLabel(passed bool) string {
	if passed {
		return "ok"
	}
	return "FAIL"
}
