// Package schedule provides the time-block schema, work-hour policy, and
// the CSV wire format shared by the synthesis and validation stages.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Block is one scheduled unit of work or meeting time.
// Produced raw by synthesis, canonicalized by Parse, then read-only.
type Block struct {
	Date        time.Time `json:"date"`
	Start       string    `json:"start"` // HH:MM, 24-hour
	End         string    `json:"end"`   // HH:MM, 24-hour
	Description string    `json:"description"`
	ProjectName string    `json:"project_name"`
	TaskName    string    `json:"task_name"`
	Billable    bool      `json:"billable"`
	IsMeeting   bool      `json:"is_meeting"`
}

// Defaults applied when the wire format omits optional columns.
const (
	DefaultProject = "Development"
	DefaultTask    = "General"
)

// MeetingTask is the task name both synthesis strategies emit for
// recurring meetings; Parse uses it to mark meeting blocks.
const MeetingTask = "Meetings"

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var hours, mins int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hours, &mins); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return hours*60 + mins, nil
}

// FormatClock converts minutes since midnight into an HH:MM string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns the span between two HH:MM clock times in hours.
// The computation is on a single 24-hour clock: an end before the start
// is malformed input and returns an error, never a wrap to the next day.
// Both validators must use this function so their totals cannot drift.
func Duration(start, end string) (float64, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMin < startMin {
		return 0, fmt.Errorf("block ends %s before it starts %s", end, start)
	}
	return float64(endMin-startMin) / 60.0, nil
}

// Hours returns the block's duration in hours.
func (b Block) Hours() (float64, error) {
	return Duration(b.Start, b.End)
}

// Sort orders blocks by date, then start time, in place.
func Sort(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		di, dj := blocks[i].Date, blocks[j].Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return blocks[i].Start < blocks[j].Start
	})
}
