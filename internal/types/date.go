package types

import (
	"time"
)

// DateFormat is the wire format for calendar dates (no time-of-day)
const DateFormat = "2006-01-02"

// ToDate truncates a timestamp to a calendar date ie UTC midnight.
// Every date flowing through the churn engine is normalized through this
// helper so dates are safe to compare and to use as map keys.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a yyyy-mm-dd string into a calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return ToDate(t), nil
}

// FormatDate renders a calendar date as yyyy-mm-dd
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// AddDays shifts a calendar date by n days (n may be negative)
func AddDays(t time.Time, n int) time.Time {
	return ToDate(t.AddDate(0, 0, n))
}

// DaysBetweenInclusive returns the number of days in [from, to] counting
// both endpoints. Returns 0 when to precedes from.
func DaysBetweenInclusive(from, to time.Time) int {
	from, to = ToDate(from), ToDate(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// MonthStart returns the first day of the month containing t
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of the month containing t
func MonthEnd(t time.Time) time.Time {
	return AddDays(MonthStart(t).AddDate(0, 1, 0), -1)
}

// NextMonth returns the first day of the month after the one containing t
func NextMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// MinDate returns the earlier of two calendar dates
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of two calendar dates
func MaxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
