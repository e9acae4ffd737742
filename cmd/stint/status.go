// Package main provides the entry point for the stint CLI.
package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/stint/internal/config"
	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/output"
)

// statusResult holds the data for status output.
type statusResult struct {
	Repo          string  `json:"repo"`
	Model         string  `json:"model"`
	ResolvedModel string  `json:"resolved_model,omitempty"`
	ModelError    string  `json:"model_error,omitempty"`
	GitHubUser    string  `json:"github_user,omitempty"`
	GitHubError   string  `json:"github_error,omitempty"`
	WorkspaceID   string  `json:"workspace_id,omitempty"`
	ClockifyError string  `json:"clockify_error,omitempty"`
	LastEntryDate string  `json:"last_entry_date,omitempty"`
	DaysBehind    int     `json:"days_behind"`
	DailyHours    float64 `json:"daily_hours"`
	DaysPerWeek   int     `json:"days_per_week"`
	WeeklyHours   float64 `json:"weekly_hours"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and reporting state",
		Long: `Show the current configuration and how far behind the timesheet is.

Checks GitHub and Clockify connectivity, resolves the generation model,
and reports the date of the most recent Clockify entry along with the
number of unreported business days since.

Examples:
  stint status          # Show human-readable status
  stint status --json   # Output status as JSON for scripting`,
		RunE: runStatus,
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	result := gatherStatus(cmd.Context(), cfg)

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printHumanStatus(printer, result)
	return nil
}

// gatherStatus probes each integration independently: one broken
// credential should not hide the state of the others.
func gatherStatus(ctx context.Context, cfg config.Config) statusResult {
	result := statusResult{
		Repo:        cfg.Repo,
		Model:       cfg.Model,
		WorkspaceID: cfg.Clockify.WorkspaceID,
		DailyHours:  cfg.Policy.DailyHours,
		DaysPerWeek: cfg.Policy.DaysPerWeek,
		WeeklyHours: cfg.Policy.WeeklyHours(),
	}

	probeGitHub(ctx, &result)
	probeClockify(ctx, cfg, &result)
	probeModel(ctx, cfg, &result)

	return result
}

func probeGitHub(ctx context.Context, result *statusResult) {
	source, err := newCommitSource()
	if err != nil {
		result.GitHubError = err.Error()
		return
	}
	user, err := source.User(ctx)
	if err != nil {
		result.GitHubError = err.Error()
		return
	}
	result.GitHubUser = user
}

func probeClockify(ctx context.Context, cfg config.Config, result *statusResult) {
	store, err := newEntryStore(cfg)
	if err != nil {
		result.ClockifyError = err.Error()
		return
	}
	last, found, err := store.LastEntryDate(ctx)
	if err != nil {
		result.ClockifyError = err.Error()
		return
	}
	if found {
		result.LastEntryDate = daterange.DayKey(last)
		result.DaysBehind = len(daterange.BusinessDays(last.AddDate(0, 0, 1), time.Now()))
	}
}

func probeModel(ctx context.Context, cfg config.Config, result *statusResult) {
	_, model, err := newSynthesizer(ctx, cfg)
	if err != nil {
		result.ModelError = err.Error()
		return
	}
	result.ResolvedModel = model
}

// printHumanStatus renders the status for humans.
func printHumanStatus(printer *output.Printer, result statusResult) {
	printer.Section("Configuration")
	printer.KeyValue("Repository", orUnset(result.Repo))
	printer.KeyValue("Model", orUnset(result.Model))
	printer.KeyValue("Workspace", orUnset(result.WorkspaceID))
	printer.KeyValue("Policy", strconv.FormatFloat(result.DailyHours, 'f', -1, 64)+"h/day, "+
		strconv.Itoa(result.DaysPerWeek)+" days/week")

	printer.Section("GitHub")
	if result.GitHubError != "" {
		printer.KeyValue("Status", result.GitHubError)
	} else {
		printer.KeyValue("User", result.GitHubUser)
	}

	printer.Section("Clockify")
	switch {
	case result.ClockifyError != "":
		printer.KeyValue("Status", result.ClockifyError)
	case result.LastEntryDate == "":
		printer.KeyValue("Last entry", "none in the last 30 days")
	default:
		printer.KeyValue("Last entry", result.LastEntryDate)
		printer.KeyValue("Days behind", strconv.Itoa(result.DaysBehind))
	}

	printer.Section("Model")
	if result.ModelError != "" {
		printer.KeyValue("Status", result.ModelError)
	} else {
		printer.KeyValue("Resolved", result.ResolvedModel)
	}
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
