package workweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.ParseInLocation(Layout, s, time.UTC)
	return t
}

func TestParseMonday(t *testing.T) {
	monday, err := ParseMonday("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, monday.Weekday())

	_, err = ParseMonday("2024-06-04")
	assert.Error(t, err)

	_, err = ParseMonday("03/06/2024")
	assert.Error(t, err)
}

func TestStartOfAndNextMonday(t *testing.T) {
	assert.Equal(t, day("2024-06-03"), StartOf(day("2024-06-03")))
	assert.Equal(t, day("2024-06-03"), StartOf(day("2024-06-09")))
	assert.Equal(t, day("2024-06-10"), NextMonday(day("2024-06-03")))
	assert.Equal(t, day("2024-06-10"), NextMonday(time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)))
}

func TestWeekdays(t *testing.T) {
	days := Weekdays(day("2024-06-03"))
	require.Len(t, days, 5)
	assert.Equal(t, time.Monday, days[0].Weekday())
	assert.Equal(t, time.Friday, days[4].Weekday())
	assert.Equal(t, "2024-06-07", Format(days[4]))
}

func TestUpcoming(t *testing.T) {
	weeks := Upcoming(day("2024-06-05"), 3)
	assert.Equal(t, []time.Time{day("2024-06-10"), day("2024-06-17"), day("2024-06-24")}, weeks)
	assert.Len(t, Upcoming(day("2024-06-05"), 0), 1)
}

func TestISOWeek(t *testing.T) {
	assert.Equal(t, 1, ISOWeek(day("2024-12-30")))
	assert.Equal(t, 23, ISOWeek(day("2024-06-03")))
}
