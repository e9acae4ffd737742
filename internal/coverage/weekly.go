package coverage

import (
	"fmt"
	"math"
	"sort"

	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/schedule"
)

// WeeklyTolerance is the slack allowed on a week's total, in hours.
// Independent of DailyTolerance; kept as observed in production use.
const WeeklyTolerance = 1.0

// WeeklyReport is the result of weekly distribution validation.
type WeeklyReport struct {
	Valid        bool               `json:"valid"`
	WeeklyTotals map[string]float64 `json:"weekly_totals"` // keyed by the week's Monday
	Problems     []string           `json:"problems,omitempty"`
}

// ValidateWeekly checks that each observed ISO week's total (Monday anchor)
// is within WeeklyTolerance of the policy's weekly budget.
//
// This is report-only: blocks are returned unchanged. Rebalancing hours
// between weeks is a possible extension point, not current behavior.
func ValidateWeekly(blocks []schedule.Block, policy schedule.Policy) ([]schedule.Block, WeeklyReport) {
	report := WeeklyReport{
		WeeklyTotals: make(map[string]float64),
	}

	for _, block := range blocks {
		hours, err := block.Hours()
		if err != nil {
			// Already reported by daily validation; contributes nothing here.
			continue
		}
		week := daterange.DayKey(daterange.WeekMonday(block.Date))
		report.WeeklyTotals[week] += hours
	}

	weeks := make([]string, 0, len(report.WeeklyTotals))
	for week := range report.WeeklyTotals {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	for _, week := range weeks {
		total := report.WeeklyTotals[week]
		if math.Abs(total-policy.WeeklyHours()) > WeeklyTolerance {
			report.Problems = append(report.Problems,
				fmt.Sprintf("Week %s: %sh (should be %sh)", week, formatHours(total), formatHours(policy.WeeklyHours())))
		}
	}

	report.Valid = len(report.Problems) == 0
	return blocks, report
}
