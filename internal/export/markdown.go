package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/schedule"
	"github.com/gorewood/stint/internal/workflow"
)

// FormatMarkdown formats a run result as a markdown report.
// Returns the formatted markdown string.
func FormatMarkdown(result workflow.Result) string {
	var builder strings.Builder

	writeFrontmatter(&builder, result)
	writeDays(&builder, result)
	writeValidation(&builder, result)

	return builder.String()
}

// writeFrontmatter writes the YAML frontmatter section.
func writeFrontmatter(builder *strings.Builder, result workflow.Result) {
	builder.WriteString("---\n")
	builder.WriteString("schema: stint.report/v1\n")
	fmt.Fprintf(builder, "range: %s\n", daterange.FormatRange(result.Range))
	fmt.Fprintf(builder, "business_days: %d\n", result.Coverage.BusinessDayCount)
	fmt.Fprintf(builder, "commit_count: %d\n", result.CommitCount)
	fmt.Fprintf(builder, "strategy: %s\n", strategyLabel(result.UsedFallback))
	builder.WriteString("---\n\n")

	fmt.Fprintf(builder, "# Work report %s\n\n", daterange.FormatRange(result.Range))
}

// writeDays writes one section per scheduled day, blocks in order.
func writeDays(builder *strings.Builder, result workflow.Result) {
	byDay := make(map[string][]schedule.Block)
	var keys []string
	for _, block := range result.Blocks {
		key := daterange.DayKey(block.Date)
		if _, seen := byDay[key]; !seen {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], block)
	}
	sort.Strings(keys)

	for _, key := range keys {
		blocks := byDay[key]
		schedule.Sort(blocks)

		var total float64
		for _, block := range blocks {
			if hours, err := block.Hours(); err == nil {
				total += hours
			}
		}
		fmt.Fprintf(builder, "## %s %s (%s)\n\n", blocks[0].Date.Weekday(), key, hoursLabel(total))

		for _, block := range blocks {
			fmt.Fprintf(builder, "- %s-%s %s [%s / %s]\n",
				block.Start, block.End, block.Description, block.ProjectName, block.TaskName)
		}
		builder.WriteString("\n")
	}
}

// writeValidation summarizes coverage and weekly totals.
func writeValidation(builder *strings.Builder, result workflow.Result) {
	builder.WriteString("## Validation\n\n")

	fmt.Fprintf(builder, "- Daily coverage: %s (%s of %s expected)\n",
		validLabel(result.Coverage.Valid),
		hoursLabel(result.Coverage.ActualHours),
		hoursLabel(result.Coverage.ExpectedHours))
	for _, issue := range result.Coverage.DailyIssues {
		fmt.Fprintf(builder, "  - %s\n", issue)
	}

	fmt.Fprintf(builder, "- Weekly distribution: %s\n", validLabel(result.Weekly.Valid))
	var mondays []string
	for monday := range result.Weekly.WeeklyTotals {
		mondays = append(mondays, monday)
	}
	sort.Strings(mondays)
	for _, monday := range mondays {
		fmt.Fprintf(builder, "  - week of %s: %s\n", monday, hoursLabel(result.Weekly.WeeklyTotals[monday]))
	}
	for _, problem := range result.Weekly.Problems {
		fmt.Fprintf(builder, "  - %s\n", problem)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(builder, "- Warning: %s\n", warning)
	}
}

func strategyLabel(usedFallback bool) string {
	if usedFallback {
		return "fallback"
	}
	return "model"
}

func validLabel(valid bool) string {
	if valid {
		return "ok"
	}
	return "issues"
}

func hoursLabel(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}
