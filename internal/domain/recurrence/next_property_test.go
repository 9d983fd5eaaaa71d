package recurrence

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

var isoToRRule = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

func randomDay(rng *rand.Rand) time.Time {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, rng.Intn(365*40))
}

// TestNext_AlwaysLater checks that every Some result is strictly after the
// reference date, both as a calendar date and as an ISO string.
func TestNext_AlwaysLater(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 500; trial++ {
		ref := randomDay(rng)
		policy := Policy{
			Weekdays:   []int{rng.Intn(7) + 1, rng.Intn(7) + 1},
			DayOfMonth: rng.Intn(31) + 1,
			ExplicitDates: []string{
				FormatDate(randomDay(rng)),
				FormatDate(randomDay(rng)),
				FormatDate(randomDay(rng)),
			},
		}

		for _, freq := range Frequencies() {
			next, ok := Next(ref, freq, policy).Get()
			if !ok {
				require.Equal(t, Custom, freq, "only custom may run out of dates")
				continue
			}
			parsed, err := ParseDate(next)
			require.NoError(t, err)
			assert.True(t, parsed.After(ref), "trial %d %s: %s not after %s", trial, freq, next, FormatDate(ref))
			assert.Greater(t, next, FormatDate(ref))
		}
	}
}

// TestNext_MatchesRRule cross-checks the fixed-interval and weekday rules
// against an RFC 5545 rule engine.
func TestNext_MatchesRRule(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 300; trial++ {
		ref := randomDay(rng)

		daily, err := rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY, Dtstart: ref})
		require.NoError(t, err)
		assert.Equal(t, FormatDate(daily.After(ref, false)), Next(ref, Daily, Policy{}).MustGet())

		biweekly, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Interval: 2, Dtstart: ref})
		require.NoError(t, err)
		assert.Equal(t, FormatDate(biweekly.After(ref, false)), Next(ref, Biweekly, Policy{}).MustGet())

		weekdays := make([]int, 0, 3)
		byweekday := make([]rrule.Weekday, 0, 3)
		for i := 0; i < rng.Intn(3)+1; i++ {
			wd := rng.Intn(7) + 1
			weekdays = append(weekdays, wd)
			byweekday = append(byweekday, isoToRRule[wd-1])
		}
		weekly, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byweekday, Dtstart: ref})
		require.NoError(t, err)
		assert.Equal(t, FormatDate(weekly.After(ref, false)), Next(ref, Weekly, Policy{Weekdays: weekdays}).MustGet(),
			"trial %d weekdays %v from %s", trial, weekdays, FormatDate(ref))
	}
}
