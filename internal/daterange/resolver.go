// Package daterange parses natural-language time ranges and enumerates
// business days within them.
package daterange

import (
	"regexp"
	"strconv"
	"time"
)

// Range is a concrete inclusive date span resolved from user text.
type Range struct {
	Start time.Time
	End   time.Time
}

// handler resolves a matched pattern into a range. The argument is the
// captured count, or empty when the pattern has no capture group.
type handler func(today time.Time, arg string) Range

// pattern pairs a compiled expression with its handler. Patterns are
// checked in order; the first match wins.
type pattern struct {
	re      *regexp.Regexp
	resolve handler
}

// patterns in fixed priority order. Counted forms come before their bare
// shorthands so "last 3 weeks" never matches "last week".
var patterns = []pattern{
	{regexp.MustCompile(`(?i)last\s+(\d+)\s+days?`), lastDays},
	{regexp.MustCompile(`(?i)last\s+(\d+)\s+weeks?`), lastWeeks},
	{regexp.MustCompile(`(?i)last\s+(\d+)\s+months?`), lastMonths},
	{regexp.MustCompile(`(?i)last\s+week`), func(today time.Time, _ string) Range { return lastWeeks(today, "1") }},
	{regexp.MustCompile(`(?i)last\s+month`), func(today time.Time, _ string) Range { return lastMonths(today, "1") }},
	{regexp.MustCompile(`(?i)this\s+week`), thisWeek},
	{regexp.MustCompile(`(?i)this\s+month`), thisMonth},
	{regexp.MustCompile(`(?i)yesterday`), yesterday},
	{regexp.MustCompile(`(?i)today`), func(today time.Time, _ string) Range { return Range{today, today} }},
	{regexp.MustCompile(`(?i)past\s+(\d+)\s+days?`), lastDays},
	{regexp.MustCompile(`(?i)previous\s+(\d+)\s+weeks?`), lastWeeks},
}

// Resolve parses a natural-language time range like "last 2 weeks" into a
// concrete range anchored at today. Unrecognized text falls back to the
// last 2 weeks; resolution never fails.
func Resolve(text string, today time.Time) Range {
	today = midnight(today)

	for _, p := range patterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		arg := ""
		if len(match) > 1 {
			arg = match[1]
		}
		return p.resolve(today, arg)
	}

	return lastWeeks(today, "2")
}

func lastDays(today time.Time, arg string) Range {
	days, _ := strconv.Atoi(arg)
	return Range{today.AddDate(0, 0, -days), today}
}

func lastWeeks(today time.Time, arg string) Range {
	weeks, _ := strconv.Atoi(arg)
	return Range{today.AddDate(0, 0, -7*weeks), today}
}

// lastMonths anchors the start at the first of the month N months back.
// The month index is normalized by hand so subtraction rolls cleanly
// across year boundaries (time.AddDate would also shift the day).
func lastMonths(today time.Time, arg string) Range {
	months, _ := strconv.Atoi(arg)

	year := today.Year()
	month := int(today.Month()) - months
	for month <= 0 {
		month += 12
		year--
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	return Range{start, today}
}

// thisWeek spans Monday through Sunday of the current week.
func thisWeek(today time.Time, _ string) Range {
	start := today.AddDate(0, 0, -daysSinceMonday(today))
	return Range{start, start.AddDate(0, 0, 6)}
}

// thisMonth spans the first through the last calendar day of the current month.
func thisMonth(today time.Time, _ string) Range {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 1, -1)
	return Range{start, end}
}

func yesterday(today time.Time, _ string) Range {
	day := today.AddDate(0, 0, -1)
	return Range{day, day}
}

// BusinessDays returns every Monday-Friday date in [start, end] inclusive,
// in ascending order. Returns nil when start is after end.
func BusinessDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := midnight(start); !d.After(midnight(end)); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// MissingBusinessDays returns the business days in [start, end] that do not
// appear in existing, order preserved. Dates in existing are compared by
// calendar day.
func MissingBusinessDays(start, end time.Time, existing []time.Time) []time.Time {
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[DayKey(d)] = true
	}

	var missing []time.Time
	for _, d := range BusinessDays(start, end) {
		if !seen[DayKey(d)] {
			missing = append(missing, d)
		}
	}
	return missing
}

// FormatRange renders a range for display: a single date when start and
// end coincide, otherwise "start to end".
func FormatRange(r Range) string {
	if DayKey(r.Start) == DayKey(r.End) {
		return DayKey(r.Start)
	}
	return DayKey(r.Start) + " to " + DayKey(r.End)
}

// DayKey formats a date as YYYY-MM-DD, the canonical per-day identity used
// throughout the pipeline.
func DayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// WeekMonday returns the Monday of the ISO week containing d, at midnight.
func WeekMonday(d time.Time) time.Time {
	d = midnight(d)
	return d.AddDate(0, 0, -daysSinceMonday(d))
}

func isBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// daysSinceMonday maps Sunday to 6, otherwise weekday-1.
func daysSinceMonday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
