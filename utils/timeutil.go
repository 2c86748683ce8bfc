// File: utils/timeutil.go
package utils

import (
	"fmt"
	"time"
)

// DateKeyLayout is the calendar-date form used for store keys and API input.
const DateKeyLayout = "2006-01-02"

// ClockLayout is the business-local time-of-day form ("HH:MM").
const ClockLayout = "15:04"

// ParseLocalDate parses a "YYYY-MM-DD" string as midnight in the given
// business timezone.
func ParseLocalDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// LocalClockToUTC anchors a "HH:MM" wall-clock time to the given business-local
// calendar date and converts the result to a UTC instant.
func LocalClockToUTC(date string, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local time %q on %q: %w", clock, date, err)
	}
	return t.UTC(), nil
}

// UTCDateKey renders an instant's UTC calendar date as a store key.
func UTCDateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// LocalTimeLabel renders an instant as "HH:MM" wall-clock time in the given
// business timezone.
func LocalTimeLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// Overlaps tests half-open interval intersection: [aStart, aEnd) and
// [bStart, bEnd) share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AddMinutes shifts an instant forward by whole minutes.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// MinutesBetween returns the elapsed whole minutes from a to b.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// IsLocalMidnight reports whether the given UTC instant falls within
// tolerance after local midnight in the given timezone. The rollover sweep
// runs hourly, so a one-hour tolerance catches each business exactly once
// per local day.
func IsLocalMidnight(utc time.Time, loc *time.Location, tolerance time.Duration) bool {
	local := utc.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	since := local.Sub(midnight)
	return since >= 0 && since < tolerance
}

// LocalDateKey renders an instant's calendar date in the given timezone.
func LocalDateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// NextLocalDate returns the "YYYY-MM-DD" key of the calendar day following
// the given local date in the given timezone.
func NextLocalDate(date string, loc *time.Location) (string, error) {
	t, err := ParseLocalDate(date, loc)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(DateKeyLayout), nil
}
