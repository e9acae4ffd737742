package synth

import (
	"time"

	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/schedule"
)

const (
	maxBlockMinutes = 120 // task blocks never exceed 2 hours
	lunchMinutes    = 60
	noonMinute      = 12 * 60
	lastStartMinute = 17 * 60 // no block starts at or after 17:00
)

// meetingProject groups recurring meetings in the tracker.
const meetingProject = "Team Communication"

// genericTasks fills days once commits run out.
var genericTasks = []string{
	"Code review and feedback",
	"Feature development",
	"Bug fixing and debugging",
	"Testing and quality assurance",
	"Documentation updates",
	"Research and technical exploration",
}

// Fallback generates a schedule without the model: meetings at their
// exact slots first, then sequential task blocks drawn round-robin from
// the commit list.
type Fallback struct{}

// Generate produces the schedule as CSV text in the wire format, same
// contract as the AI strategy.
func (Fallback) Generate(days []time.Time, policy schedule.Policy, commits []github.Commit) string {
	return schedule.Render(Blocks(days, policy, commits))
}

// Blocks builds the fallback schedule for the given days.
func Blocks(days []time.Time, policy schedule.Policy, commits []github.Commit) []schedule.Block {
	var blocks []schedule.Block
	commitIdx := 0
	genericIdx := 0

	for _, day := range days {
		dayBlocks := fillDay(day, policy, commits, &commitIdx, &genericIdx)
		blocks = append(blocks, dayBlocks...)
	}

	schedule.Sort(blocks)
	return blocks
}

// fillDay packs one day: meetings subtract from the hour budget and
// occupy their configured slots, task blocks fill the rest from the
// policy start time.
func fillDay(day time.Time, policy schedule.Policy, commits []github.Commit, commitIdx, genericIdx *int) []schedule.Block {
	remaining := int(policy.DailyHours * 60)

	meetings := policy.MeetingsOn(day.Weekday())
	var blocks []schedule.Block
	type interval struct{ start, end int }
	var busy []interval

	for _, m := range meetings {
		start, err := schedule.ParseClock(m.Start)
		if err != nil {
			continue
		}
		end, err := schedule.ParseClock(m.End)
		if err != nil || end <= start {
			continue
		}
		blocks = append(blocks, schedule.Block{
			Date:        day,
			Start:       m.Start,
			End:         m.End,
			Description: m.Title,
			ProjectName: meetingProject,
			TaskName:    schedule.MeetingTask,
			Billable:    false,
			IsMeeting:   true,
		})
		busy = append(busy, interval{start, end})
		remaining -= end - start
	}

	clock, err := schedule.ParseClock(policy.StartTime)
	if err != nil {
		clock = 9 * 60
	}
	lunchTaken := false

	for remaining > 0 && clock < lastStartMinute {
		// Jump past a meeting covering the current time.
		jumped := false
		for _, iv := range busy {
			if clock >= iv.start && clock < iv.end {
				clock = iv.end
				jumped = true
				break
			}
		}
		if jumped {
			continue
		}

		length := maxBlockMinutes
		if remaining < length {
			length = remaining
		}
		end := clock + length

		// Truncate at the next meeting rather than double-booking.
		for _, iv := range busy {
			if clock < iv.start && end > iv.start {
				end = iv.start
			}
		}
		if end <= clock {
			break
		}

		blocks = append(blocks, schedule.Block{
			Date:        day,
			Start:       schedule.FormatClock(clock),
			End:         schedule.FormatClock(end),
			Description: nextDescription(commits, commitIdx, genericIdx),
			ProjectName: schedule.DefaultProject,
			TaskName:    schedule.DefaultTask,
			Billable:    true,
		})

		remaining -= end - clock
		if !lunchTaken && clock < noonMinute && end > noonMinute {
			clock = end + lunchMinutes
			lunchTaken = true
		} else {
			clock = end
		}
	}

	return blocks
}

// nextDescription hands out commits round-robin, then cycles the
// generic task list.
func nextDescription(commits []github.Commit, commitIdx, genericIdx *int) string {
	if len(commits) > 0 && *commitIdx < len(commits) {
		message := TruncateMessage(commits[*commitIdx].Message)
		*commitIdx++
		return "Work on: " + message
	}
	description := genericTasks[*genericIdx%len(genericTasks)]
	*genericIdx++
	return description
}
