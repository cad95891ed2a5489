package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "already midnight utc",
			in:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "drops time of day",
			in:   time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC),
			want: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "converts zone before truncating",
			in:   time.Date(2025, time.March, 10, 2, 0, 0, 0, ist),
			want: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDate(tt.in))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-02-28")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("28-02-2025")
	assert.Error(t, err)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestDaysBetweenInclusive(t *testing.T) {
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetweenInclusive(day, day))
	assert.Equal(t, 30, DaysBetweenInclusive(day, AddDays(day, 29)))
	assert.Equal(t, 0, DaysBetweenInclusive(day, AddDays(day, -1)))
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t,
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)))

	// leap year February
	assert.Equal(t,
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		MonthEnd(time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		NextMonth(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMinMaxDate(t *testing.T) {
	a := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, a, MinDate(a, b))
	assert.Equal(t, a, MinDate(b, a))
	assert.Equal(t, b, MaxDate(a, b))
	assert.Equal(t, b, MaxDate(b, a))
}
