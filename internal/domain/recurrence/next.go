// Package recurrence computes the next maintenance date of a recurring
// service from the date the previous service was completed.
package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"
)

// Next returns the next occurrence after ref as a YYYY-MM-DD string, or None
// when no further occurrence can be determined. Unknown frequencies and
// custom schedules with no later date yield None.
func Next(ref time.Time, freq Frequency, policy Policy) mo.Option[string] {
	day := DateOnly(ref)
	if freq == Custom {
		return nextExplicit(day, policy.ExplicitDates)
	}

	next, ok := nextDate(day, freq, policy).Get()
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(FormatDate(next))
}

func nextDate(day time.Time, freq Frequency, policy Policy) mo.Option[time.Time] {
	switch freq {
	case Daily:
		return mo.Some(day.AddDate(0, 0, 1))
	case Weekly:
		if len(policy.Weekdays) == 0 {
			return mo.Some(day.AddDate(0, 0, 7))
		}
		return mo.Some(nextWeekday(day, policy.Weekdays))
	case Biweekly:
		return mo.Some(day.AddDate(0, 0, 14))
	case Monthly:
		if policy.DayOfMonth < 1 || policy.DayOfMonth > 31 {
			return mo.Some(day.AddDate(0, 1, 0))
		}
		return mo.Some(nextMonthDay(day, policy.DayOfMonth))
	case Bimonthly:
		return mo.Some(day.AddDate(0, 2, 0))
	case Quarterly:
		return mo.Some(day.AddDate(0, 3, 0))
	case Semiannual:
		return mo.Some(day.AddDate(0, 6, 0))
	case Annual:
		return mo.Some(day.AddDate(1, 0, 0))
	default:
		return mo.None[time.Time]()
	}
}

// nextWeekday scans at most one week ahead for a pinned weekday. A set with no
// usable weekday falls back to a plain week.
func nextWeekday(day time.Time, weekdays []int) time.Time {
	for offset := 1; offset <= 7; offset++ {
		candidate := day.AddDate(0, 0, offset)
		if slices.Contains(weekdays, ISOWeekday(candidate)) {
			return candidate
		}
	}
	return day.AddDate(0, 0, 7)
}

// nextMonthDay moves to the following calendar month and pins the day,
// clamping to the month's last day.
func nextMonthDay(day time.Time, dayOfMonth int) time.Time {
	year, month := day.Year(), day.Month()+1
	if month > time.December {
		year, month = year+1, time.January
	}
	dayOfMonth = min(dayOfMonth, DaysInMonth(year, month))
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// nextExplicit compares ISO strings, not parsed dates.
func nextExplicit(day time.Time, dates []string) mo.Option[string] {
	ref := FormatDate(day)
	for _, candidate := range slices.Sorted(slices.Values(dates)) {
		if candidate > ref {
			return mo.Some(candidate)
		}
	}
	return mo.None[string]()
}

// Project follows the chain of occurrences starting after ref, as a technician
// completing every visit on its due date would. It stops at the first None, at
// a custom date that does not parse, or after limit entries.
func Project(ref time.Time, freq Frequency, policy Policy, limit int) []string {
	if limit <= 0 {
		return nil
	}
	out := make([]string, 0, limit)
	cursor := DateOnly(ref)
	for len(out) < limit {
		next, ok := Next(cursor, freq, policy).Get()
		if !ok {
			break
		}
		parsed, err := ParseDate(next)
		if err != nil {
			break
		}
		out = append(out, next)
		cursor = parsed
	}
	return out
}
