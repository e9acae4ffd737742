// Package main provides the entry point for the stint CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/stint/internal/config"
	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/workflow"
)

// newPlanCmd creates the plan command.
func newPlanCmd() *cobra.Command {
	var fallbackFlag bool
	var outFlag string
	var repoFlag string

	cmd := &cobra.Command{
		Use:   "plan [range]",
		Short: "Generate a schedule without touching Clockify",
		Long: `Generate a work schedule for a date range and show it.

Nothing is read from or written to Clockify: plan is safe to run as
often as you like. The range is natural language and defaults to
"this week".

Examples:
  stint plan                          # Plan this week
  stint plan "last 2 weeks"           # Plan a longer range
  stint plan --fallback               # Skip the model, deterministic only
  stint plan --out week.csv           # Also write the schedule to a file
  stint plan "yesterday" --json       # Structured output for scripting`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args, fallbackFlag, outFlag, repoFlag)
		},
	}

	cmd.Flags().BoolVar(&fallbackFlag, "fallback", false, "Skip model synthesis and use the deterministic generator")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write the result to a file (.csv, .json, or .md)")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "GitHub repository (owner/name), overrides config")
	return cmd
}

// runPlan executes the plan command.
func runPlan(cmd *cobra.Command, args []string, fallback bool, outPath, repo string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	runner, _, err := buildRunner(cmd, printer, repo, fallback)
	if err != nil {
		printer.Error(err)
		return err
	}

	res := runner.Run(cmd.Context(), rangeArg(args))
	return finishRun(printer, res, outPath)
}

// rangeArg returns the range expression, defaulting to this week.
func rangeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "this week"
}

// buildRunner wires a read-only pipeline runner: commit source and
// synthesis strategy, no entry store. Model setup failures degrade to
// the deterministic fallback with a warning instead of aborting.
func buildRunner(cmd *cobra.Command, printer *output.Printer, repo string, fallback bool) (*workflow.Runner, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	if repo != "" {
		cfg.Repo = repo
	}
	if cfg.Repo == "" {
		return nil, cfg, output.NewUserError("no repository configured. Set repo in config.yml or pass --repo owner/name")
	}

	source, err := newCommitSource()
	if err != nil {
		return nil, cfg, err
	}

	runner := &workflow.Runner{
		Source: source,
		Repo:   cfg.Repo,
		Policy: cfg.Policy,
	}

	if !fallback {
		strategy, _, err := newSynthesizer(cmd.Context(), cfg)
		if err != nil {
			printer.Warn("model unavailable (%v); using deterministic fallback", err)
		} else {
			runner.AI = strategy
		}
	}
	return runner, cfg, nil
}
