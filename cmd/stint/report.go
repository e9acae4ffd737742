// Package main provides the entry point for the stint CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/stint/internal/output"
)

// newReportCmd creates the report command.
func newReportCmd() *cobra.Command {
	var applyFlag bool
	var fallbackFlag bool
	var outFlag string
	var repoFlag string

	cmd := &cobra.Command{
		Use:   "report [range]",
		Short: "Generate a schedule and import it into Clockify",
		Long: `Generate a work schedule for a date range and write it to Clockify.

Without --apply this is a dry run: existing Clockify entries are read
to show which work days are still unreported, a schedule is generated
for the gap, and nothing is written.

With --apply the import is a REPLACE: every Clockify entry in the
range is deleted, then the full regenerated schedule is imported.
There is no undo.

Examples:
  stint report                        # Dry run for this week
  stint report "last week" --apply    # Replace last week's entries
  stint report --apply --fallback     # Replace without model synthesis
  stint report --json                 # Structured output for scripting`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, applyFlag, fallbackFlag, outFlag, repoFlag)
		},
	}

	cmd.Flags().BoolVar(&applyFlag, "apply", false, "Delete the range's Clockify entries and import the new schedule")
	cmd.Flags().BoolVar(&fallbackFlag, "fallback", false, "Skip model synthesis and use the deterministic generator")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write the result to a file (.csv, .json, or .md)")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "GitHub repository (owner/name), overrides config")
	return cmd
}

// runReport executes the report command.
func runReport(cmd *cobra.Command, args []string, apply, fallback bool, outPath, repo string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	runner, cfg, err := buildRunner(cmd, printer, repo, fallback)
	if err != nil {
		printer.Error(err)
		return err
	}

	store, err := newEntryStore(cfg)
	if err != nil {
		printer.Error(err)
		return err
	}
	runner.Store = store
	runner.Apply = apply

	res := runner.Run(cmd.Context(), rangeArg(args))

	if res.Success && !apply && !printer.IsJSON() && len(res.Blocks) > 0 {
		printer.Warn("dry run: nothing was written. Re-run with --apply to replace the range's Clockify entries")
	}
	return finishRun(printer, res, outPath)
}
