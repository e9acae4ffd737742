package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/schedule"
)

const (
	maxPromptCommits = 20
	maxMessageLen    = 80
)

// systemPrompt frames every AI synthesis request.
const systemPrompt = "You are a time tracking assistant. You turn git commit history " +
	"into a realistic daily work schedule in CSV form."

// BuildPrompt assembles the synthesis prompt from the work policy, the
// recurring meetings, the reporting window, and the commit history.
func BuildPrompt(days []time.Time, policy schedule.Policy, commits []github.Commit) string {
	var b strings.Builder

	b.WriteString("Create a complete work schedule in CSV format for time tracking.\n\n")

	b.WriteString("Work parameters:\n")
	fmt.Fprintf(&b, "- Daily working hours: %g\n", policy.DailyHours)
	fmt.Fprintf(&b, "- Working days per week: %d\n", policy.DaysPerWeek)
	fmt.Fprintf(&b, "- Work starts at: %s\n", policy.StartTime)

	if len(days) > 0 {
		fmt.Fprintf(&b, "- Schedule these days only: %s\n", joinDays(days))
	}

	if len(policy.Meetings) > 0 {
		b.WriteString("\nRecurring meetings (every listed day must include them at the exact slot, non-billable, taskName Meetings):\n")
		for _, m := range policy.Meetings {
			fmt.Fprintf(&b, "- %s %s-%s: %s\n", m.Weekday, m.Start, m.End, m.Title)
		}
	}

	b.WriteString("\nGitHub commits:\n")
	for i, commit := range commits {
		if i >= maxPromptCommits {
			break
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, commit.Date.Format("2006-01-02"), TruncateMessage(commit.Message))
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- Header row exactly: " + schedule.Header + "\n")
	b.WriteString("- date is YYYY-MM-DD, start and end are HH:MM on a 24-hour clock\n")
	fmt.Fprintf(&b, "- Every scheduled day must total exactly %g hours of blocks\n", policy.DailyHours)
	b.WriteString("- Break commits into realistic development tasks with professional descriptions\n")
	b.WriteString("- Do not use quotes or commas inside descriptions\n")
	b.WriteString("- billable is true for development work, false for meetings\n")
	b.WriteString("- Return ONLY the CSV, no commentary\n")

	return b.String()
}

// TruncateMessage reduces a commit message to its first line, capped for
// prompt budget.
func TruncateMessage(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	message = strings.TrimSpace(message)
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}
	return message
}

func joinDays(days []time.Time) string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = daterange.DayKey(d)
	}
	return strings.Join(keys, ", ")
}
