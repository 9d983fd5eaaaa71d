package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Policy narrows a frequency. Only the field that belongs to the frequency in
// use is consulted; the others are ignored.
type Policy struct {
	// Weekdays pins weekly recurrence, 1 = Monday ... 7 = Sunday.
	Weekdays []int `json:"weekdays,omitempty"`
	// DayOfMonth pins monthly recurrence. Zero means unset.
	DayOfMonth int `json:"dayOfMonth,omitempty"`
	// ExplicitDates lists the YYYY-MM-DD dates of a custom schedule.
	ExplicitDates []string `json:"explicitDates,omitempty"`
}

var ErrInvalidPolicy = errors.New("invalid recurrence policy")

// IsZero reports whether no field of the policy is set.
func (p Policy) IsZero() bool {
	return len(p.Weekdays) == 0 && p.DayOfMonth == 0 && len(p.ExplicitDates) == 0
}

// Validate applies the input rules of the parsers to a decoded policy:
// weekdays 1-7, a day of month of 0 (unset) or 1-31, and YYYY-MM-DD dates.
func (p Policy) Validate() error {
	for _, day := range p.Weekdays {
		if err := checkWeekday(day); err != nil {
			return err
		}
	}
	if p.DayOfMonth != 0 {
		if err := checkDayOfMonth(p.DayOfMonth); err != nil {
			return err
		}
	}
	for _, date := range p.ExplicitDates {
		if _, err := ParseDate(date); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
	}
	return nil
}

func checkWeekday(day int) error {
	if day < 1 || day > 7 {
		return fmt.Errorf("%w: weekday %d out of range 1-7", ErrInvalidPolicy, day)
	}
	return nil
}

func checkDayOfMonth(day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidPolicy, day)
	}
	return nil
}

// ParseWeekdays parses a comma separated list such as "1,3,5".
func ParseWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		if err := checkWeekday(day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ParseDayOfMonth parses a day-of-month option, 1 through 31.
func ParseDayOfMonth(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid day of month %q: %w", s, err)
	}
	if err := checkDayOfMonth(day); err != nil {
		return 0, err
	}
	return day, nil
}

// ParseDateList parses a comma separated list of YYYY-MM-DD dates. Each entry
// is validated but kept in its original string form.
func ParseDateList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	dates := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if _, err := ParseDate(part); err != nil {
			return nil, err
		}
		dates = append(dates, part)
	}
	return dates, nil
}
