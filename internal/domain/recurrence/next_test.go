package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNext_FixedIntervals(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		freq Frequency
		want string
	}{
		{"daily", "2024-06-03", Daily, "2024-06-04"},
		{"daily across year end", "2024-12-31", Daily, "2025-01-01"},
		{"weekly without weekdays", "2024-06-03", Weekly, "2024-06-10"},
		{"biweekly", "2024-06-03", Biweekly, "2024-06-17"},
		{"biweekly across leap day", "2024-02-20", Biweekly, "2024-03-05"},
		{"monthly", "2024-06-15", Monthly, "2024-07-15"},
		{"monthly rolls over short month", "2024-01-31", Monthly, "2024-03-02"},
		{"monthly rolls over non-leap february", "2025-01-31", Monthly, "2025-03-03"},
		{"bimonthly", "2024-11-30", Bimonthly, "2025-01-30"},
		{"quarterly", "2024-11-15", Quarterly, "2025-02-15"},
		{"semiannual", "2024-08-31", Semiannual, "2025-03-03"},
		{"annual", "2024-06-03", Annual, "2025-06-03"},
		{"annual from leap day", "2024-02-29", Annual, "2025-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(date(t, tt.ref), tt.freq, Policy{})
			assert.Equal(t, mo.Some(tt.want), got)
		})
	}
}

func TestNext_WeeklyWithWeekdays(t *testing.T) {
	monday := date(t, "2024-06-03")

	tests := []struct {
		name     string
		weekdays []int
		want     string
	}{
		{"wednesday", []int{3}, "2024-06-05"},
		{"earliest of several", []int{5, 2}, "2024-06-04"},
		{"sunday is seven", []int{7}, "2024-06-09"},
		{"same weekday is a week later", []int{1}, "2024-06-10"},
		{"out of range falls back to a week", []int{0, 9}, "2024-06-10"},
		{"empty set is a plain week", []int{}, "2024-06-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(monday, Weekly, Policy{Weekdays: tt.weekdays})
			assert.Equal(t, mo.Some(tt.want), got)
		})
	}
}

func TestNext_MonthlyWithDayOfMonth(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		day  int
		want string
	}{
		{"clamps to leap february", "2024-01-31", 31, "2024-02-29"},
		{"clamps to non-leap february", "2025-01-31", 31, "2025-02-28"},
		{"clamps to thirty day month", "2024-05-10", 31, "2024-06-30"},
		{"pins an earlier day", "2024-06-20", 5, "2024-07-05"},
		{"pins a later day", "2024-06-05", 20, "2024-07-20"},
		{"december wraps the year", "2024-12-15", 10, "2025-01-10"},
		{"out of range is ignored", "2024-06-15", 40, "2024-07-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(date(t, tt.ref), Monthly, Policy{DayOfMonth: tt.day})
			assert.Equal(t, mo.Some(tt.want), got)
		})
	}
}

func TestNext_Custom(t *testing.T) {
	ref := date(t, "2024-06-01")

	t.Run("earliest later date", func(t *testing.T) {
		got := Next(ref, Custom, Policy{ExplicitDates: []string{"2024-05-20", "2024-07-01", "2024-08-15"}})
		assert.Equal(t, mo.Some("2024-07-01"), got)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		got := Next(ref, Custom, Policy{ExplicitDates: []string{"2024-08-15", "2024-05-20", "2024-07-01"}})
		assert.Equal(t, mo.Some("2024-07-01"), got)
	})

	t.Run("same day is not later", func(t *testing.T) {
		got := Next(ref, Custom, Policy{ExplicitDates: []string{"2024-06-01", "2024-06-02"}})
		assert.Equal(t, mo.Some("2024-06-02"), got)
	})

	t.Run("no later date", func(t *testing.T) {
		got := Next(ref, Custom, Policy{ExplicitDates: []string{"2024-05-20", "2024-06-01"}})
		assert.True(t, got.IsAbsent())
	})

	t.Run("no dates", func(t *testing.T) {
		assert.True(t, Next(ref, Custom, Policy{}).IsAbsent())
	})

	t.Run("explicit dates do not mutate", func(t *testing.T) {
		dates := []string{"2024-08-15", "2024-07-01"}
		Next(ref, Custom, Policy{ExplicitDates: dates})
		assert.Equal(t, []string{"2024-08-15", "2024-07-01"}, dates)
	})
}

func TestNext_UnrecognisedFrequency(t *testing.T) {
	for _, freq := range []Frequency{"foo", "", "DAILY"} {
		got := Next(date(t, "2024-06-01"), freq, Policy{Weekdays: []int{1}, DayOfMonth: 5})
		assert.True(t, got.IsAbsent(), "frequency %q", freq)
	}
}

func TestNext_IgnoresPolicyFieldsOfOtherFrequencies(t *testing.T) {
	policy := Policy{Weekdays: []int{3}, DayOfMonth: 1, ExplicitDates: []string{"2030-01-01"}}
	ref := date(t, "2024-06-03")

	assert.Equal(t, mo.Some("2024-06-04"), Next(ref, Daily, policy))
	assert.Equal(t, mo.Some("2024-06-17"), Next(ref, Biweekly, policy))
	assert.Equal(t, mo.Some("2025-06-03"), Next(ref, Annual, policy))
}

func TestNext_DropsTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 6, 3, 23, 45, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, mo.Some("2024-06-04"), Next(ref, Daily, Policy{}))
}

func TestNext_Idempotent(t *testing.T) {
	ref := date(t, "2024-06-03")
	first := Next(ref, Biweekly, Policy{})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Next(ref, Biweekly, Policy{}))
	}
	assert.Equal(t, mo.Some("2024-06-17"), first)
}

func TestProject(t *testing.T) {
	ref := date(t, "2024-06-01")

	assert.Equal(t, []string{"2024-06-02", "2024-06-03", "2024-06-04"}, Project(ref, Daily, Policy{}, 3))
	assert.Equal(t, []string{"2024-07-01", "2024-08-15"},
		Project(ref, Custom, Policy{ExplicitDates: []string{"2024-08-15", "2024-05-20", "2024-07-01"}}, 10))
	assert.Equal(t, []string{"2024-07-31", "2024-08-31", "2024-09-30", "2024-10-31"},
		Project(date(t, "2024-06-30"), Monthly, Policy{DayOfMonth: 31}, 4))
	assert.Empty(t, Project(ref, "foo", Policy{}, 3))
	assert.Nil(t, Project(ref, Daily, Policy{}, 0))
}

func TestProject_StopsAtUnparseableCustomDate(t *testing.T) {
	ref := date(t, "2024-06-01")
	got := Project(ref, Custom, Policy{ExplicitDates: []string{"2024-7-15", "2024-07-01"}}, 10)
	assert.Equal(t, []string{"2024-07-01"}, got)
}
