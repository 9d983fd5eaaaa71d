package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"proservis/internal/domain/recurrence"
)

const nextUsage = "`/next <AAAA-MM-DD> <frecuencia> [days=1,3|day=31|dates=2024-07-01,2024-08-15]`"

var ErrPreviewUsage = errors.New("usage: /next <YYYY-MM-DD> <frequency> [days=..|day=..|dates=..]")

// PreviewRequest is a parsed /next command.
type PreviewRequest struct {
	Reference time.Time
	Frequency recurrence.Frequency
	Policy    recurrence.Policy
}

// ParsePreviewArgs parses "<date> <frequency> [key=value ...]". The keys are
// days (weekly weekdays), day (monthly day of month) and dates (custom list).
func ParsePreviewArgs(args []string) (*PreviewRequest, error) {
	if len(args) < 2 {
		return nil, ErrPreviewUsage
	}

	ref, err := recurrence.ParseDate(args[0])
	if err != nil {
		return nil, err
	}

	req := &PreviewRequest{
		Reference: ref,
		Frequency: recurrence.Frequency(strings.ToLower(args[1])),
	}

	for _, opt := range args[2:] {
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return nil, fmt.Errorf("option %q is not key=value", opt)
		}
		switch strings.ToLower(key) {
		case "days":
			if req.Policy.Weekdays, err = recurrence.ParseWeekdays(value); err != nil {
				return nil, err
			}
		case "day":
			if req.Policy.DayOfMonth, err = recurrence.ParseDayOfMonth(value); err != nil {
				return nil, err
			}
		case "dates":
			if req.Policy.ExplicitDates, err = recurrence.ParseDateList(value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown option %q", key)
		}
	}

	return req, nil
}
