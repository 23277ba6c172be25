package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang-maintenance/pkg/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	end := date(2025, time.January, 31)

	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{
			name: "valid interval",
			spec: Spec{Kind: KindInterval, IntervalDays: 7, StartDate: date(2025, time.January, 1)},
		},
		{
			name:    "interval days zero",
			spec:    Spec{Kind: KindInterval, IntervalDays: 0, StartDate: date(2025, time.January, 1)},
			wantErr: true,
		},
		{
			name: "valid custom days",
			spec: Spec{Kind: KindCustomDays, CustomDays: []int{2, 7, 14, 28}, StartDate: date(2025, time.January, 1)},
		},
		{
			name:    "empty custom days",
			spec:    Spec{Kind: KindCustomDays, StartDate: date(2025, time.January, 1)},
			wantErr: true,
		},
		{
			name:    "custom day out of range",
			spec:    Spec{Kind: KindCustomDays, CustomDays: []int{0, 15}, StartDate: date(2025, time.January, 1)},
			wantErr: true,
		},
		{
			name:    "custom day above 31",
			spec:    Spec{Kind: KindCustomDays, CustomDays: []int{32}, StartDate: date(2025, time.January, 1)},
			wantErr: true,
		},
		{
			name:    "start after end",
			spec:    Spec{Kind: KindInterval, IntervalDays: 1, StartDate: date(2025, time.February, 1), EndDate: &end},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			spec:    Spec{Kind: "cron", IntervalDays: 1, StartDate: date(2025, time.January, 1)},
			wantErr: true,
		},
		{
			name:    "missing start date",
			spec:    Spec{Kind: KindInterval, IntervalDays: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNextDueDateInterval(t *testing.T) {
	end := date(2025, time.January, 31)
	spec := Spec{
		Kind:         KindInterval,
		IntervalDays: 7,
		StartDate:    date(2025, time.January, 1),
		EndDate:      &end,
	}

	next, ok := spec.NextDueDate(date(2024, time.December, 25))
	require.True(t, ok, "before start should yield the start date")
	assert.Equal(t, spec.StartDate, next)

	next, ok = spec.NextDueDate(date(2025, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.January, 8), next)

	_, ok = spec.NextDueDate(date(2025, time.January, 29))
	assert.False(t, ok, "next would pass end_date")

	_, ok = spec.NextDueDate(date(2025, time.February, 10))
	assert.False(t, ok, "past end_date is exhausted")
}

func TestNextDueDateCustomSameMonth(t *testing.T) {
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{28, 7, 14, 2},
		StartDate:  date(2025, time.January, 1),
	}

	next, ok := spec.NextDueDate(date(2025, time.January, 7))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.January, 14), next, "days are considered in sorted order")

	next, ok = spec.NextDueDate(date(2025, time.January, 28))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.February, 2), next, "rolls over to the next month")
}

func TestNextDueDateCustomSkipsInvalidDay(t *testing.T) {
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{31},
		StartDate:  date(2025, time.January, 15),
	}

	next, ok := spec.NextDueDate(date(2025, time.January, 15))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.January, 31), next)

	// No Feb 31: February is skipped entirely, never shifted to Feb 28.
	next, ok = spec.NextDueDate(date(2025, time.January, 31))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 31), next)
}

func TestNextDueDateCustomEndDateCutsOff(t *testing.T) {
	end := date(2025, time.February, 15)
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{20},
		StartDate:  date(2025, time.January, 1),
		EndDate:    &end,
	}

	next, ok := spec.NextDueDate(date(2025, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.January, 20), next)

	_, ok = spec.NextDueDate(date(2025, time.January, 20))
	assert.False(t, ok, "Feb 20 is past end_date")
}

func TestAllDueDatesInterval(t *testing.T) {
	end := date(2025, time.January, 31)
	spec := Spec{
		Kind:         KindInterval,
		IntervalDays: 7,
		StartDate:    date(2025, time.January, 1),
		EndDate:      &end,
	}

	dates := spec.AllDueDates(spec.StartDate, 24)
	want := []time.Time{
		date(2025, time.January, 1),
		date(2025, time.January, 8),
		date(2025, time.January, 15),
		date(2025, time.January, 22),
		date(2025, time.January, 29),
	}
	assert.Equal(t, want, dates)
}

func TestAllDueDatesCustomIncludesMatchingStart(t *testing.T) {
	end := date(2025, time.March, 31)
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{15},
		StartDate:  date(2025, time.January, 15),
		EndDate:    &end,
	}

	dates := spec.AllDueDates(spec.StartDate, 24)
	want := []time.Time{
		date(2025, time.January, 15),
		date(2025, time.February, 15),
		date(2025, time.March, 15),
	}
	assert.Equal(t, want, dates)
}

func TestAllDueDatesUnboundedCappedAtHorizon(t *testing.T) {
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{1},
		StartDate:  date(2025, time.January, 1),
	}

	dates := spec.AllDueDates(spec.StartDate, 6)
	require.NotEmpty(t, dates)
	horizon := spec.StartDate.AddDate(0, 6, 0)
	for _, d := range dates {
		assert.False(t, d.After(horizon), "date %s beyond horizon", utils.FormatDate(d))
	}
	// 1st of each month from Jan through Jul inclusive.
	assert.Len(t, dates, 7)
}

func TestAllDueDatesUnboundedIntervalCapped(t *testing.T) {
	spec := Spec{
		Kind:         KindInterval,
		IntervalDays: 30,
		StartDate:    date(2025, time.January, 1),
	}

	dates := spec.AllDueDates(spec.StartDate, 12)
	require.NotEmpty(t, dates)
	horizon := spec.StartDate.AddDate(0, 12, 0)
	for _, d := range dates {
		assert.False(t, d.After(horizon))
	}
}

func TestAllDueDatesWindowFollowsAnchor(t *testing.T) {
	spec := Spec{
		Kind:         KindInterval,
		IntervalDays: 30,
		StartDate:    date(2020, time.January, 1),
	}

	// An anchor years past the start date must extend the window beyond
	// start+horizon, otherwise an unbounded schedule goes quiet for good.
	anchor := date(2024, time.June, 1)
	dates := spec.AllDueDates(anchor, 12)
	require.NotEmpty(t, dates)

	assert.Equal(t, spec.StartDate, dates[0], "expansion still begins at the start date")
	last := dates[len(dates)-1]
	assert.True(t, last.After(anchor), "last date %s not past the anchor", utils.FormatDate(last))

	windowEnd := anchor.AddDate(0, 12, 0)
	for _, d := range dates {
		assert.False(t, d.After(windowEnd), "date %s beyond window", utils.FormatDate(d))
	}
}

func TestAllDueDatesAnchorBeforeStartClamps(t *testing.T) {
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{1},
		StartDate:  date(2025, time.January, 1),
	}

	dates := spec.AllDueDates(date(2024, time.March, 1), 6)
	assert.Equal(t, spec.AllDueDates(spec.StartDate, 6), dates,
		"an anchor before the start date behaves as if anchored at the start")
}

func TestAllDueDatesStrictlyIncreasing(t *testing.T) {
	end := date(2025, time.June, 30)
	spec := Spec{
		Kind:       KindCustomDays,
		CustomDays: []int{1, 15, 31},
		StartDate:  date(2025, time.January, 1),
		EndDate:    &end,
	}

	dates := spec.AllDueDates(spec.StartDate, 24)
	require.NotEmpty(t, dates)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]),
			"dates must be strictly increasing: %s then %s",
			utils.FormatDate(dates[i-1]), utils.FormatDate(dates[i]))
	}
}
