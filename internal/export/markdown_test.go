package export

import (
	"strings"
	"testing"
	"time"

	"github.com/gorewood/stint/internal/coverage"
	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/schedule"
	"github.com/gorewood/stint/internal/workflow"
)

func testResult() workflow.Result {
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	return workflow.Result{
		Success:     true,
		Range:       daterange.Range{Start: monday, End: monday.AddDate(0, 0, 6)},
		CommitCount: 3,
		Blocks: []schedule.Block{
			{Date: monday, Start: "09:00", End: "11:00", Description: "Work on: Fix parser", ProjectName: "Development", TaskName: "Development", Billable: true},
			{Date: monday, Start: "11:00", End: "13:00", Description: "Code review and feedback", ProjectName: "Development", TaskName: "Development", Billable: true},
			{Date: monday.AddDate(0, 0, 1), Start: "09:00", End: "13:00", Description: "Feature development", ProjectName: "Development", TaskName: "Development", Billable: true},
		},
		Coverage: coverage.Report{
			Valid:            true,
			ExpectedHours:    16,
			ActualHours:      8,
			BusinessDayCount: 2,
		},
		Weekly: coverage.WeeklyReport{
			Valid:        true,
			WeeklyTotals: map[string]float64{"2024-06-17": 8},
		},
	}
}

func TestFormatMarkdown(t *testing.T) {
	got := FormatMarkdown(testResult())

	wantContains := []string{
		"schema: stint.report/v1",
		"range: 2024-06-17 to 2024-06-23",
		"business_days: 2",
		"commit_count: 3",
		"strategy: model",
		"# Work report 2024-06-17 to 2024-06-23",
		"## Monday 2024-06-17 (4h)",
		"- 09:00-11:00 Work on: Fix parser [Development / Development]",
		"## Tuesday 2024-06-18 (4h)",
		"## Validation",
		"- Daily coverage: ok (8h of 16h expected)",
		"- Weekly distribution: ok",
		"  - week of 2024-06-17: 8h",
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q\n\n%s", want, got)
		}
	}
}

func TestFormatMarkdown_FallbackAndIssues(t *testing.T) {
	result := testResult()
	result.UsedFallback = true
	result.Coverage.Valid = false
	result.Coverage.DailyIssues = []string{"2024-06-18: 4h scheduled, expected 8h"}
	result.Warnings = []string{"model synthesis failed: boom"}

	got := FormatMarkdown(result)

	wantContains := []string{
		"strategy: fallback",
		"- Daily coverage: issues",
		"  - 2024-06-18: 4h scheduled, expected 8h",
		"- Warning: model synthesis failed: boom",
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q\n\n%s", want, got)
		}
	}
}

func TestFormatMarkdown_DaysInOrder(t *testing.T) {
	got := FormatMarkdown(testResult())

	monday := strings.Index(got, "## Monday 2024-06-17")
	tuesday := strings.Index(got, "## Tuesday 2024-06-18")
	if monday == -1 || tuesday == -1 || monday > tuesday {
		t.Errorf("day sections out of order: monday at %d, tuesday at %d", monday, tuesday)
	}
}
