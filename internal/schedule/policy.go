package schedule

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Meeting is a fixed recurring meeting slot on one weekday.
type Meeting struct {
	Weekday time.Weekday `yaml:"-"`
	Start   string       `yaml:"start"` // HH:MM
	End     string       `yaml:"end"`   // HH:MM
	Title   string       `yaml:"title"`
}

// UnmarshalYAML decodes the weekday from its English name so config
// files can say "monday" instead of a number.
func (m *Meeting) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Weekday string `yaml:"weekday"`
		Start   string `yaml:"start"`
		End     string `yaml:"end"`
		Title   string `yaml:"title"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	weekday, err := ParseWeekday(raw.Weekday)
	if err != nil {
		return err
	}
	*m = Meeting{Weekday: weekday, Start: raw.Start, End: raw.End, Title: raw.Title}
	return nil
}

// MarshalYAML writes the weekday back out as its lowercase name.
func (m Meeting) MarshalYAML() (any, error) {
	return map[string]string{
		"weekday": strings.ToLower(m.Weekday.String()),
		"start":   m.Start,
		"end":     m.End,
		"title":   m.Title,
	}, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves an English weekday name, case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	if weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return weekday, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Policy is the immutable work-hour policy a schedule must cover.
type Policy struct {
	DailyHours  float64   `yaml:"daily_hours"`
	DaysPerWeek int       `yaml:"days_per_week"`
	StartTime   string    `yaml:"start_time"` // HH:MM
	Meetings    []Meeting `yaml:"meetings"`
}

// DefaultPolicy mirrors the defaults applied when the user configures
// nothing: an eight-hour day, five days a week, starting at nine.
func DefaultPolicy() Policy {
	return Policy{
		DailyHours:  8,
		DaysPerWeek: 5,
		StartTime:   "09:00",
	}
}

// WeeklyHours is the policy's total weekly budget.
func (p Policy) WeeklyHours() float64 {
	return p.DailyHours * float64(p.DaysPerWeek)
}

// Validate checks the policy's invariants: positive daily hours, a
// plausible work week, a parseable start time, parseable meeting slots,
// and no two meetings overlapping on the same weekday.
func (p Policy) Validate() error {
	if p.DailyHours <= 0 {
		return fmt.Errorf("daily_hours must be positive, got %g", p.DailyHours)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("days_per_week must be 1-7, got %d", p.DaysPerWeek)
	}
	if _, err := ParseClock(p.StartTime); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	return validateMeetings(p.Meetings)
}

// MeetingsOn returns the policy's meetings for one weekday, in the order
// they were configured.
func (p Policy) MeetingsOn(day time.Weekday) []Meeting {
	var out []Meeting
	for _, m := range p.Meetings {
		if m.Weekday == day {
			out = append(out, m)
		}
	}
	return out
}

func validateMeetings(meetings []Meeting) error {
	type slot struct {
		start, end int
		title      string
	}
	byDay := make(map[time.Weekday][]slot)

	for _, m := range meetings {
		start, err := ParseClock(m.Start)
		if err != nil {
			return fmt.Errorf("meeting %q start: %w", m.Title, err)
		}
		end, err := ParseClock(m.End)
		if err != nil {
			return fmt.Errorf("meeting %q end: %w", m.Title, err)
		}
		if end <= start {
			return fmt.Errorf("meeting %q ends at or before it starts", m.Title)
		}

		for _, other := range byDay[m.Weekday] {
			if start < other.end && other.start < end {
				return fmt.Errorf("meetings %q and %q overlap on %s", other.title, m.Title, m.Weekday)
			}
		}
		byDay[m.Weekday] = append(byDay[m.Weekday], slot{start, end, m.Title})
	}
	return nil
}
