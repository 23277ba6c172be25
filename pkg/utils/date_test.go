package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, time.January, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.January, 2, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(a, b))
}

func TestDaysBetweenMixedLocations(t *testing.T) {
	// A UTC-scanned scheduled date against a WIB wall clock must still count
	// whole calendar days; the 7-hour offset used to truncate one away.
	scheduled := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, time.January, 13, 0, 0, 0, 0, GetWibTimeLocation())

	assert.Equal(t, 3, DaysBetween(scheduled, today))
	assert.Equal(t, -3, DaysBetween(today, scheduled))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, time.January))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 30, DaysInMonth(2025, time.April))
}
