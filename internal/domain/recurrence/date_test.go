package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2024, time.January))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
	assert.Equal(t, 29, DaysInMonth(2000, time.February))
	assert.Equal(t, 30, DaysInMonth(2024, time.November))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))

	// Agrees with the standard library's normalisation for a few decades.
	for year := 1990; year <= 2040; year++ {
		for month := time.January; month <= time.December; month++ {
			want := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			require.Equal(t, want, DaysInMonth(year, month), "%d-%02d", year, month)
		}
	}
}

func TestISOWeekday(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	for _, bad := range []string{"", "2024-2-29", "2025-02-29", "29/02/2024", "2024-02-29T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestPolicyParsers(t *testing.T) {
	days, err := ParseWeekdays("1, 3,7")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 7}, days)

	_, err = ParseWeekdays("0")
	assert.Error(t, err)
	_, err = ParseWeekdays("mon")
	assert.Error(t, err)

	day, err := ParseDayOfMonth("31")
	require.NoError(t, err)
	assert.Equal(t, 31, day)
	_, err = ParseDayOfMonth("32")
	assert.Error(t, err)

	dates, err := ParseDateList("2024-07-01,2024-08-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-07-01", "2024-08-15"}, dates)
	_, err = ParseDateList("2024-07-01,tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.True(t, Policy{}.IsZero())
	assert.False(t, Policy{DayOfMonth: 1}.IsZero())
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range Frequencies() {
		assert.True(t, f.Valid(), f.String())
	}
	assert.False(t, Frequency("foo").Valid())
	assert.Len(t, Frequencies(), 9)
}
