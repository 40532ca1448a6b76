package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// CivilDate returns t's calendar date (in t's own location) as midnight UTC.
// All date-only columns hold values in this form.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of calendar days from start to end
func DaysBetween(start, end time.Time) int {
	return int(CivilDate(end).Sub(CivilDate(start)).Hours() / 24)
}

// InclusiveDays counts the days in [start, end], both ends included
func InclusiveDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// Overlap intersects [aStart, aEnd] with [bStart, bEnd]. It returns the shared
// window and its inclusive day count; ok is false when the ranges do not meet.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) (start, end time.Time, days int, ok bool) {
	start = CivilDate(aStart)
	if b := CivilDate(bStart); b.After(start) {
		start = b
	}
	end = CivilDate(aEnd)
	if b := CivilDate(bEnd); b.Before(end) {
		end = b
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, 0, false
	}
	return start, end, InclusiveDays(start, end), true
}

// DayBounds returns the UTC instants bounding the calendar days [from, to] as
// observed in loc: from 00:00 on the first day up to (not including) 00:00 after
// the last day.
func DayBounds(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	fy, fm, fd := from.Date()
	ty, tm, td := to.AddDate(0, 0, 1).Date()
	return time.Date(fy, fm, fd, 0, 0, 0, 0, loc).UTC(), time.Date(ty, tm, td, 0, 0, 0, 0, loc).UTC()
}

// MonthBounds returns the first and last calendar day of t's month
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
