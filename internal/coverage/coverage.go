// Package coverage validates that a synthesized schedule actually fills
// the configured work hours, per day and per ISO week.
package coverage

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/schedule"
)

// DailyTolerance is the slack allowed on a single day's total, in hours.
// Generous on purpose: block durations from generation are imprecise.
const DailyTolerance = 0.5

// Report is the result of daily coverage validation.
type Report struct {
	Valid            bool     `json:"valid"`
	ExpectedHours    float64  `json:"expected_hours"`
	ActualHours      float64  `json:"actual_hours"`
	BusinessDayCount int      `json:"business_day_count"`
	DailyIssues      []string `json:"daily_issues,omitempty"`
}

// Validate checks that blocks exactly cover each business day in
// [start, end] at the policy's daily budget, within DailyTolerance.
func Validate(blocks []schedule.Block, start, end time.Time, policy schedule.Policy) Report {
	return ValidateDays(blocks, daterange.BusinessDays(start, end), policy)
}

// ValidateDays checks that blocks exactly cover each of the given days
// at the policy's daily budget, within DailyTolerance. The day set is
// explicit so partial runs that deliberately skip already-covered days
// are not penalized for them.
//
// Malformed blocks (unparseable times, end before start) never abort
// validation: they contribute zero hours and are surfaced as issues, and
// overlapping blocks on a day are likewise reported.
func ValidateDays(blocks []schedule.Block, days []time.Time, policy schedule.Policy) Report {
	report := Report{
		BusinessDayCount: len(days),
		ExpectedHours:    float64(len(days)) * policy.DailyHours,
	}

	byDay := make(map[string][]schedule.Block)
	dailyTotals := make(map[string]float64)

	for _, block := range blocks {
		key := daterange.DayKey(block.Date)
		hours, err := block.Hours()
		if err != nil {
			report.DailyIssues = append(report.DailyIssues,
				fmt.Sprintf("%s: unparseable block %s-%s excluded from totals", key, block.Start, block.End))
			continue
		}
		byDay[key] = append(byDay[key], block)
		dailyTotals[key] += hours
		report.ActualHours += hours
	}

	// Map order is random; sort the keys so issue order is stable.
	overlapKeys := make([]string, 0, len(byDay))
	for key := range byDay {
		overlapKeys = append(overlapKeys, key)
	}
	sort.Strings(overlapKeys)
	for _, key := range overlapKeys {
		report.DailyIssues = append(report.DailyIssues, findOverlaps(key, byDay[key])...)
	}

	for _, day := range days {
		key := daterange.DayKey(day)
		total := dailyTotals[key]
		if math.Abs(total-policy.DailyHours) > DailyTolerance {
			report.DailyIssues = append(report.DailyIssues,
				fmt.Sprintf("%s: %sh (expected %sh)", key, formatHours(total), formatHours(policy.DailyHours)))
		}
	}

	totalDrift := math.Abs(report.ActualHours - report.ExpectedHours)
	report.Valid = len(report.DailyIssues) == 0 && totalDrift <= float64(len(days))*DailyTolerance

	return report
}

// findOverlaps reports every pair of blocks on one day whose spans
// intersect. Blocks with unparseable times never reach here.
func findOverlaps(key string, blocks []schedule.Block) []string {
	type span struct {
		start, end int
		label      string
	}
	spans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		startMin, err := schedule.ParseClock(b.Start)
		if err != nil {
			continue
		}
		endMin, err := schedule.ParseClock(b.End)
		if err != nil {
			continue
		}
		spans = append(spans, span{startMin, endMin, b.Start + "-" + b.End})
	}

	var issues []string
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start < spans[j].end && spans[j].start < spans[i].end {
				issues = append(issues,
					fmt.Sprintf("%s: blocks %s and %s overlap", key, spans[i].label, spans[j].label))
			}
		}
	}
	return issues
}

// formatHours renders an hour total without trailing zeros (7, 7.5, 6.67).
func formatHours(h float64) string {
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64)
}
