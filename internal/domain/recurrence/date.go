package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used at every boundary.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date")

// DateOnly keeps the calendar day of t as seen in t's own location and drops
// the time of day. All arithmetic in this package runs on these values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOnly(t).Format(DateLayout)
}

// DaysInMonth returns the length of month in year under the Gregorian rules.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// ISOWeekday maps t's weekday to 1 (Monday) through 7 (Sunday).
func ISOWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}
