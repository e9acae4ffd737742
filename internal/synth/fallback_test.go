package synth

import (
	"strings"
	"testing"
	"time"

	"github.com/gorewood/stint/internal/coverage"
	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/schedule"
)

func businessWeek(t *testing.T) []time.Time {
	t.Helper()
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

func testCommits(n int) []github.Commit {
	var commits []github.Commit
	for i := 0; i < n; i++ {
		commits = append(commits, github.Commit{
			SHA:     "abc0000",
			Message: "Implement feature " + string(rune('A'+i)),
			Date:    time.Date(2024, 6, 17+i%5, 10, 0, 0, 0, time.UTC),
			Author:  "Dev",
		})
	}
	return commits
}

func dayTotal(t *testing.T, blocks []schedule.Block, day time.Time) float64 {
	t.Helper()
	total := 0.0
	for _, b := range blocks {
		if daterange.DayKey(b.Date) != daterange.DayKey(day) {
			continue
		}
		hours, err := b.Hours()
		if err != nil {
			t.Fatalf("block %s-%s on %s has bad duration: %v", b.Start, b.End, daterange.DayKey(day), err)
		}
		total += hours
	}
	return total
}

func TestBlocks_FullWeekExactCoverage(t *testing.T) {
	days := businessWeek(t)
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	blocks := Blocks(days, policy, testCommits(5))

	for _, day := range days {
		if total := dayTotal(t, blocks, day); total != 8 {
			t.Errorf("%s total = %gh, want exactly 8h", daterange.DayKey(day), total)
		}
	}
}

func TestBlocks_EndToEndValidators(t *testing.T) {
	days := businessWeek(t)
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	raw := Fallback{}.Generate(days, policy, testCommits(5))
	blocks := schedule.Parse(raw)

	report := coverage.Validate(blocks, days[0], days[4], policy)
	if !report.Valid {
		t.Errorf("coverage Valid = false; issues: %v", report.DailyIssues)
	}

	_, weekly := coverage.ValidateWeekly(blocks, policy)
	if !weekly.Valid {
		t.Errorf("weekly Valid = false; problems: %v", weekly.Problems)
	}
	if len(weekly.WeeklyTotals) != 1 {
		t.Errorf("WeeklyTotals = %v, want one week", weekly.WeeklyTotals)
	}
}

func TestBlocks_NoBlockStartsAtOrAfterFive(t *testing.T) {
	days := businessWeek(t)
	// An oversized budget cannot be met before the cutoff.
	policy := schedule.Policy{DailyHours: 12, DaysPerWeek: 5, StartTime: "09:00"}

	blocks := Blocks(days, policy, nil)

	for _, b := range blocks {
		start, err := schedule.ParseClock(b.Start)
		if err != nil {
			t.Fatalf("bad start %q: %v", b.Start, err)
		}
		if start >= 17*60 {
			t.Errorf("block starts at %s, want nothing at or after 17:00", b.Start)
		}
	}
}

func TestBlocks_ZeroCommitsUsesGenericTasks(t *testing.T) {
	days := businessWeek(t)[:1]
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	blocks := Blocks(days, policy, nil)

	if total := dayTotal(t, blocks, days[0]); total > 8 {
		t.Errorf("day total = %gh, want no more than 8h", total)
	}
	for _, b := range blocks {
		if strings.HasPrefix(b.Description, "Work on:") {
			t.Errorf("description %q references a commit, want generic tasks only", b.Description)
		}
	}
}

func TestBlocks_CommitDescriptionsRoundRobin(t *testing.T) {
	days := businessWeek(t)[:1]
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	blocks := Blocks(days, policy, testCommits(2))

	if len(blocks) < 3 {
		t.Fatalf("got %d blocks, want enough to exhaust 2 commits", len(blocks))
	}
	if blocks[0].Description != "Work on: Implement feature A" {
		t.Errorf("blocks[0] = %q, want first commit", blocks[0].Description)
	}
	if blocks[1].Description != "Work on: Implement feature B" {
		t.Errorf("blocks[1] = %q, want second commit", blocks[1].Description)
	}
	if strings.HasPrefix(blocks[2].Description, "Work on:") {
		t.Errorf("blocks[2] = %q, want a generic task after commits run out", blocks[2].Description)
	}
}

func TestBlocks_LunchAfterNoonCrossingBlock(t *testing.T) {
	days := businessWeek(t)[:1]
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	blocks := Blocks(days, policy, nil)

	var starts, ends []string
	for _, b := range blocks {
		starts = append(starts, b.Start)
		ends = append(ends, b.End)
	}

	wantStarts := []string{"09:00", "11:00", "14:00", "16:00"}
	wantEnds := []string{"11:00", "13:00", "16:00", "18:00"}
	if strings.Join(starts, " ") != strings.Join(wantStarts, " ") {
		t.Errorf("starts = %v, want %v", starts, wantStarts)
	}
	if strings.Join(ends, " ") != strings.Join(wantEnds, " ") {
		t.Errorf("ends = %v, want %v", ends, wantEnds)
	}
}

func TestBlocks_MeetingsSubtractFromBudget(t *testing.T) {
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	policy := schedule.Policy{
		DailyHours:  8,
		DaysPerWeek: 5,
		StartTime:   "09:00",
		Meetings: []schedule.Meeting{
			{Weekday: time.Monday, Start: "10:00", End: "11:00", Title: "Weekly standup"},
		},
	}

	blocks := Blocks([]time.Time{monday}, policy, nil)

	if total := dayTotal(t, blocks, monday); total != 8 {
		t.Errorf("day total = %gh, want 8h including the meeting", total)
	}

	var meeting *schedule.Block
	for i := range blocks {
		if blocks[i].IsMeeting {
			meeting = &blocks[i]
		}
	}
	if meeting == nil {
		t.Fatal("no meeting block generated")
	}
	if meeting.Start != "10:00" || meeting.End != "11:00" {
		t.Errorf("meeting at %s-%s, want configured 10:00-11:00 slot", meeting.Start, meeting.End)
	}
	if meeting.Billable {
		t.Error("meeting Billable = true, want false")
	}
	if meeting.TaskName != schedule.MeetingTask {
		t.Errorf("meeting TaskName = %q, want %q", meeting.TaskName, schedule.MeetingTask)
	}

	// Task blocks must not overlap the meeting slot.
	for _, b := range blocks {
		if b.IsMeeting {
			continue
		}
		start, _ := schedule.ParseClock(b.Start)
		end, _ := schedule.ParseClock(b.End)
		if start < 11*60 && end > 10*60 {
			t.Errorf("task block %s-%s overlaps the 10:00-11:00 meeting", b.Start, b.End)
		}
	}
}

func TestGenerate_RoundTripsThroughParse(t *testing.T) {
	days := businessWeek(t)
	policy := schedule.Policy{DailyHours: 8, DaysPerWeek: 5, StartTime: "09:00"}

	raw := Fallback{}.Generate(days, policy, testCommits(3))
	once := schedule.Parse(raw)
	twice := schedule.Parse(schedule.Render(once))

	if len(once) == 0 {
		t.Fatal("Parse returned no blocks")
	}
	if len(once) != len(twice) {
		t.Fatalf("reparse changed block count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("block %d changed on reparse: %+v vs %+v", i, once[i], twice[i])
		}
	}
}
