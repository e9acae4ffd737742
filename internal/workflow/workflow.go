// Package workflow runs the schedule generation pipeline: range
// resolution, commit fetch, synthesis, sanitization, validation, and
// the Clockify replace-import.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/gorewood/stint/internal/clockify"
	"github.com/gorewood/stint/internal/coverage"
	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/schedule"
	"github.com/gorewood/stint/internal/synth"
)

// Stage names the pipeline states in execution order.
type Stage string

// Pipeline stages.
const (
	StageParseRange     Stage = "parse_range"
	StageResolvePolicy  Stage = "resolve_policy"
	StageCheckExisting  Stage = "check_existing_entries"
	StageDeleteEntries  Stage = "delete_existing_entries"
	StageFetchCommits   Stage = "fetch_commits"
	StageSynthesize     Stage = "synthesize_schedule"
	StageSanitize       Stage = "sanitize"
	StageValidateDaily  Stage = "validate_coverage"
	StageValidateWeekly Stage = "validate_weekly_distribution"
	StageImportEntries  Stage = "import_entries"
	StageComplete       Stage = "complete"
)

// CommitSource fetches commit history for a repository window.
type CommitSource interface {
	Commits(ctx context.Context, repo string, since, until time.Time) ([]github.Commit, error)
}

// EntryStore reads and writes remote time entries.
type EntryStore interface {
	TimeEntries(ctx context.Context, start, end time.Time) ([]clockify.Entry, error)
	DeleteEntries(ctx context.Context, start, end time.Time) (int, error)
	CreateEntry(ctx context.Context, block schedule.Block) error
}

// Synthesizer is the primary schedule generation strategy.
type Synthesizer interface {
	Generate(ctx context.Context, days []time.Time, policy schedule.Policy, commits []github.Commit) (string, error)
}

// Result is the structured outcome of one pipeline run. The pipeline
// never panics or escapes an unhandled fault: every run yields a Result.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Stages   []Stage  `json:"stages"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`

	Range        daterange.Range       `json:"range"`
	MissingDays  []time.Time           `json:"missing_days,omitempty"`
	CommitCount  int                   `json:"commit_count"`
	UsedFallback bool                  `json:"used_fallback"`
	Blocks       []schedule.Block      `json:"blocks,omitempty"`
	Coverage     coverage.Report       `json:"coverage"`
	Weekly       coverage.WeeklyReport `json:"weekly"`
	Deleted      int                   `json:"deleted"`
	Imported     int                   `json:"imported"`
}

// Runner wires the pipeline's collaborators. Store may be nil for a
// read-only planning run; AI may be nil to force the deterministic
// fallback strategy.
type Runner struct {
	Source CommitSource
	Store  EntryStore
	AI     Synthesizer

	Repo   string
	Policy schedule.Policy
	Apply  bool

	// Now is swapped out in tests.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes the pipeline for a natural-language range expression.
func (r *Runner) Run(ctx context.Context, rangeText string) Result {
	var res Result

	res.Stages = append(res.Stages, StageParseRange)
	rng := daterange.Resolve(rangeText, r.now())
	res.Range = rng

	res.Stages = append(res.Stages, StageResolvePolicy)
	if r.Repo == "" {
		return fail(res, "no repository configured")
	}
	policy := resolvePolicy(r.Policy)

	days := daterange.BusinessDays(rng.Start, rng.End)

	if len(days) == 0 {
		return fail(res, "no business days in range "+daterange.FormatRange(rng))
	}

	// Applying replaces the whole range: delete everything, regenerate
	// every business day. Without apply the run is advisory and only
	// covers days that are missing entries.
	switch {
	case r.Store != nil && r.Apply:
		res.Stages = append(res.Stages, StageDeleteEntries)
		deleted, err := r.Store.DeleteEntries(ctx, midnight(rng.Start), endOfDay(rng.End))
		if err != nil {
			// Entries may simply not have existed; replace keeps going.
			res.Warnings = append(res.Warnings, "delete existing entries: "+err.Error())
		}
		res.Deleted = deleted
		res.MissingDays = days

	case r.Store != nil:
		res.Stages = append(res.Stages, StageCheckExisting)
		days = r.missingDays(ctx, rng, days, &res)

		if len(days) == 0 {
			res.Stages = append(res.Stages, StageComplete)
			res.Success = true
			res.Message = "All work days in the range already have entries."
			return res
		}

	default:
		// Planning run: every business day is being scheduled.
		res.MissingDays = days
	}

	res.Stages = append(res.Stages, StageFetchCommits)
	var commits []github.Commit
	if r.Source != nil {
		var err error
		commits, err = r.Source.Commits(ctx, r.Repo, midnight(rng.Start), endOfDay(rng.End))
		if err != nil {
			return fail(res, "commit source unavailable: "+err.Error())
		}
	}
	res.CommitCount = len(commits)

	res.Stages = append(res.Stages, StageSynthesize)
	blocks, usedFallback := r.synthesize(ctx, days, policy, commits, &res)
	res.UsedFallback = usedFallback
	if len(blocks) == 0 {
		return fail(res, "schedule synthesis exhausted: no strategy produced blocks")
	}
	res.Blocks = blocks

	res.Stages = append(res.Stages, StageValidateDaily)
	res.Coverage = coverage.ValidateDays(blocks, days, policy)
	for _, issue := range res.Coverage.DailyIssues {
		res.Warnings = append(res.Warnings, "coverage: "+issue)
	}

	res.Stages = append(res.Stages, StageValidateWeekly)
	blocks, res.Weekly = coverage.ValidateWeekly(blocks, policy)
	res.Blocks = blocks
	for _, problem := range res.Weekly.Problems {
		res.Warnings = append(res.Warnings, "weekly: "+problem)
	}

	if r.Store != nil && r.Apply {
		res.Stages = append(res.Stages, StageImportEntries)
		for _, block := range blocks {
			if err := r.Store.CreateEntry(ctx, block); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("import %s %s-%s: %s",
					daterange.DayKey(block.Date), block.Start, block.End, err.Error()))
				continue
			}
			res.Imported++
		}
	}

	res.Stages = append(res.Stages, StageComplete)
	res.Success = true
	res.Message = r.completionMessage(&res, days)
	return res
}

// missingDays narrows the schedule to business days with no existing
// entries. An entry fetch failure degrades to scheduling every day.
func (r *Runner) missingDays(ctx context.Context, rng daterange.Range, days []time.Time, res *Result) []time.Time {
	entries, err := r.Store.TimeEntries(ctx, midnight(rng.Start), endOfDay(rng.End))
	if err != nil {
		res.Warnings = append(res.Warnings, "fetch existing entries: "+err.Error())
		res.MissingDays = days
		return days
	}

	existing := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		existing = append(existing, entry.Start)
	}
	missing := daterange.MissingBusinessDays(rng.Start, rng.End, existing)
	res.MissingDays = missing
	return missing
}

// synthesize tries the AI strategy first and falls back to the
// deterministic generator when it fails or yields nothing parseable.
func (r *Runner) synthesize(ctx context.Context, days []time.Time, policy schedule.Policy, commits []github.Commit, res *Result) ([]schedule.Block, bool) {
	if r.AI != nil {
		raw, err := r.AI.Generate(ctx, days, policy, commits)
		if err == nil {
			res.Stages = append(res.Stages, StageSanitize)
			if blocks := schedule.Parse(raw); len(blocks) > 0 {
				return blocks, false
			}
			res.Warnings = append(res.Warnings, "model output contained no usable schedule lines, using fallback")
		} else {
			res.Warnings = append(res.Warnings, "model synthesis failed, using fallback: "+err.Error())
		}
	}

	raw := synth.Fallback{}.Generate(days, policy, commits)
	res.Stages = appendStageOnce(res.Stages, StageSanitize)
	return schedule.Parse(raw), true
}

func (r *Runner) completionMessage(res *Result, days []time.Time) string {
	msg := fmt.Sprintf("Generated %d blocks across %d days", len(res.Blocks), len(days))
	if res.UsedFallback {
		msg += " (deterministic fallback)"
	}
	if r.Apply && r.Store != nil {
		msg += fmt.Sprintf("; replaced %d entries with %d", res.Deleted, res.Imported)
	}
	if !res.Coverage.Valid || !res.Weekly.Valid {
		msg += "; validation reported problems"
	}
	return msg + "."
}

// resolvePolicy fills defaults for unset policy fields. An incomplete
// policy is never fatal.
func resolvePolicy(p schedule.Policy) schedule.Policy {
	def := schedule.DefaultPolicy()
	if p.DailyHours <= 0 {
		p.DailyHours = def.DailyHours
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		p.DaysPerWeek = def.DaysPerWeek
	}
	if _, err := schedule.ParseClock(p.StartTime); err != nil {
		p.StartTime = def.StartTime
	}
	return p
}

func fail(res Result, message string) Result {
	res.Errors = append(res.Errors, message)
	res.Message = message
	return res
}

func appendStageOnce(stages []Stage, stage Stage) []Stage {
	for _, s := range stages {
		if s == stage {
			return stages
		}
	}
	return append(stages, stage)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
