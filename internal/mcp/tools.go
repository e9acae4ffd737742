package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/stint/internal/coverage"
	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/schedule"
	"github.com/gorewood/stint/internal/workflow"
)

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// --- Plan tool ---

// PlanInput is the input for the plan tool.
type PlanInput struct {
	Range    string `json:"range"              jsonschema:"natural-language date range, e.g. 'this week', 'last 2 weeks', 'yesterday'"`
	Fallback bool   `json:"fallback,omitempty" jsonschema:"skip model synthesis and use the deterministic generator"`
}

// PlanOutput is the output for the plan tool.
type PlanOutput struct {
	Success      bool                  `json:"success"            jsonschema:"whether the plan was generated"`
	Message      string                `json:"message"            jsonschema:"human-readable run summary"`
	Range        string                `json:"range"              jsonschema:"resolved date range"`
	CommitCount  int                   `json:"commit_count"       jsonschema:"commits considered for synthesis"`
	UsedFallback bool                  `json:"used_fallback"      jsonschema:"whether the deterministic generator produced the schedule"`
	BlockCount   int                   `json:"block_count"        jsonschema:"number of scheduled blocks"`
	CSV          string                `json:"csv"                jsonschema:"the schedule in CSV wire format"`
	Coverage     coverage.Report       `json:"coverage"           jsonschema:"daily coverage validation"`
	Weekly       coverage.WeeklyReport `json:"weekly"             jsonschema:"weekly distribution validation"`
	Warnings     []string              `json:"warnings,omitempty" jsonschema:"non-fatal warnings from the run"`
}

func handlePlan(deps Deps) mcp.ToolHandlerFor[PlanInput, PlanOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, PlanOutput, error) {
		ai := deps.AI
		if input.Fallback {
			ai = nil
		}

		// Store stays nil: a plan never reads or writes Clockify.
		runner := workflow.Runner{
			Source: deps.Source,
			AI:     ai,
			Repo:   deps.Config.Repo,
			Policy: deps.Config.Policy,
			Now:    deps.Now,
		}
		res := runner.Run(ctx, input.Range)
		if !res.Success {
			return nil, PlanOutput{}, errors.New(res.Message)
		}

		out := PlanOutput{
			Success:      true,
			Message:      res.Message,
			Range:        daterange.FormatRange(res.Range),
			CommitCount:  res.CommitCount,
			UsedFallback: res.UsedFallback,
			BlockCount:   len(res.Blocks),
			CSV:          schedule.Render(res.Blocks),
			Coverage:     res.Coverage,
			Weekly:       res.Weekly,
			Warnings:     res.Warnings,
		}
		return nil, out, nil
	}
}

// --- Coverage tool ---

// CoverageInput is the input for the coverage tool.
type CoverageInput struct {
	Range string `json:"range" jsonschema:"natural-language date range the schedule should cover"`
	CSV   string `json:"csv"   jsonschema:"schedule CSV to validate, wire format with header row"`
}

// CoverageOutput is the output for the coverage tool.
type CoverageOutput struct {
	BlockCount int                   `json:"block_count" jsonschema:"parseable blocks found in the CSV"`
	Coverage   coverage.Report       `json:"coverage"    jsonschema:"daily coverage validation"`
	Weekly     coverage.WeeklyReport `json:"weekly"      jsonschema:"weekly distribution validation"`
}

func handleCoverage(deps Deps) mcp.ToolHandlerFor[CoverageInput, CoverageOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CoverageInput) (*mcp.CallToolResult, CoverageOutput, error) {
		blocks := schedule.Parse(input.CSV)
		if len(blocks) == 0 {
			return nil, CoverageOutput{}, errors.New("no parseable schedule rows in csv")
		}

		rng := daterange.Resolve(input.Range, deps.now())
		policy := deps.Config.Policy
		if policy.Validate() != nil {
			policy = schedule.DefaultPolicy()
		}

		report := coverage.Validate(blocks, rng.Start, rng.End, policy)
		_, weekly := coverage.ValidateWeekly(blocks, policy)

		out := CoverageOutput{
			BlockCount: len(blocks),
			Coverage:   report,
			Weekly:     weekly,
		}
		return nil, out, nil
	}
}

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Repo          string  `json:"repo"                     jsonschema:"configured GitHub repository"`
	Model         string  `json:"model"                    jsonschema:"configured generation model"`
	WorkspaceID   string  `json:"workspace_id,omitempty"   jsonschema:"configured Clockify workspace"`
	ProjectID     string  `json:"project_id,omitempty"     jsonschema:"configured Clockify project"`
	DailyHours    float64 `json:"daily_hours"              jsonschema:"policy daily hour budget"`
	DaysPerWeek   int     `json:"days_per_week"            jsonschema:"policy work days per week"`
	WeeklyHours   float64 `json:"weekly_hours"             jsonschema:"policy weekly hour budget"`
	LastEntryDate string  `json:"last_entry_date,omitempty" jsonschema:"date of the most recent Clockify entry"`
	DaysBehind    int     `json:"days_behind"              jsonschema:"business days since the last entry"`
	Warning       string  `json:"warning,omitempty"        jsonschema:"non-fatal warning message"`
}

// lastEntryDater is the optional store capability the status tool uses.
type lastEntryDater interface {
	LastEntryDate(ctx context.Context) (time.Time, bool, error)
}

func handleStatus(deps Deps) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		cfg := deps.Config
		out := StatusOutput{
			Repo:        cfg.Repo,
			Model:       cfg.Model,
			WorkspaceID: cfg.Clockify.WorkspaceID,
			ProjectID:   cfg.Clockify.ProjectID,
			DailyHours:  cfg.Policy.DailyHours,
			DaysPerWeek: cfg.Policy.DaysPerWeek,
			WeeklyHours: cfg.Policy.WeeklyHours(),
		}

		store, ok := deps.Store.(lastEntryDater)
		if !ok || deps.Store == nil {
			return nil, out, nil
		}

		last, found, err := store.LastEntryDate(ctx)
		if err != nil {
			out.Warning = "could not read Clockify entries: " + err.Error()
			return nil, out, nil
		}
		if found {
			out.LastEntryDate = daterange.DayKey(last)
			out.DaysBehind = daysBehind(last, deps.now())
		}
		return nil, out, nil
	}
}

// daysBehind counts unreported business days after the last entry, up to
// and including today.
func daysBehind(last, today time.Time) int {
	return len(daterange.BusinessDays(last.AddDate(0, 0, 1), today))
}
