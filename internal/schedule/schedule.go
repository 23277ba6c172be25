package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang-maintenance/pkg/utils"
)

// Kind selects how due dates are derived from a template.
type Kind string

const (
	KindInterval   Kind = "interval"
	KindCustomDays Kind = "custom"
)

// ErrInvalidParameters is returned when a schedule spec fails validation.
// Validation always runs before any generation, so generation itself never
// sees a malformed spec.
var ErrInvalidParameters = errors.New("invalid schedule parameters")

// monthScanLimit caps how many months NextDueDate searches forward for a
// matching custom day. A non-empty day set always matches within at most two
// months except for day sets like {31} around February, so this is purely
// defensive.
const monthScanLimit = 24

// Spec holds the schedule fields of a template, detached from persistence so
// date expansion stays a pure calculation.
type Spec struct {
	Kind         Kind
	IntervalDays int
	CustomDays   []int
	StartDate    time.Time
	EndDate      *time.Time
}

func (s Spec) Validate() error {
	switch s.Kind {
	case KindInterval:
		if s.IntervalDays < 1 {
			return fmt.Errorf("%w: interval_days must be >= 1, got %d", ErrInvalidParameters, s.IntervalDays)
		}
	case KindCustomDays:
		if len(s.CustomDays) == 0 {
			return fmt.Errorf("%w: custom_days must not be empty", ErrInvalidParameters)
		}
		for _, d := range s.CustomDays {
			if d < 1 || d > 31 {
				return fmt.Errorf("%w: custom day %d out of range [1,31]", ErrInvalidParameters, d)
			}
		}
	default:
		return fmt.Errorf("%w: unknown schedule type %q", ErrInvalidParameters, s.Kind)
	}

	if s.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", ErrInvalidParameters)
	}
	if s.EndDate != nil && s.StartDate.After(*s.EndDate) {
		return fmt.Errorf("%w: start_date %s is after end_date %s",
			ErrInvalidParameters, utils.FormatDate(s.StartDate), utils.FormatDate(*s.EndDate))
	}
	return nil
}

// NextDueDate returns the first due date strictly after from, or false when
// the schedule is exhausted. A from before the start date yields the start
// date itself: the first occurrence is never earlier than the start.
func (s Spec) NextDueDate(from time.Time) (time.Time, bool) {
	from = utils.DateOnly(from)

	if from.Before(s.StartDate) {
		return s.StartDate, true
	}
	if s.EndDate != nil && from.After(*s.EndDate) {
		return time.Time{}, false
	}

	if s.Kind == KindCustomDays && len(s.CustomDays) > 0 {
		return s.nextCustomDay(from)
	}

	next := from.AddDate(0, 0, s.IntervalDays)
	if s.EndDate != nil && next.After(*s.EndDate) {
		return time.Time{}, false
	}
	return next, true
}

// nextCustomDay scans forward month by month for the smallest configured day
// that forms a valid calendar date after from. Days with no matching calendar
// day (day 31 in February) are skipped for that month, never shifted.
func (s Spec) nextCustomDay(from time.Time) (time.Time, bool) {
	days := append([]int(nil), s.CustomDays...)
	sort.Ints(days)

	year, month, _ := from.Date()
	for i := 0; i < monthScanLimit; i++ {
		for _, day := range days {
			if day > utils.DaysInMonth(year, month) {
				continue
			}
			candidate := time.Date(year, month, day, 0, 0, 0, 0, from.Location())
			if !candidate.After(from) {
				continue
			}
			if s.EndDate != nil && candidate.After(*s.EndDate) {
				return time.Time{}, false
			}
			return candidate, true
		}
		year, month, _ = time.Date(year, month, 1, 0, 0, 0, 0, from.Location()).AddDate(0, 1, 0).Date()
	}
	return time.Time{}, false
}

// AllDueDates expands the schedule into the full ordered set of due dates,
// starting at the start date (inclusive, when it matches the schedule).
// Unbounded schedules are truncated horizonMonths past the later of from and
// the start date. The window follows the anchor rather than the start date,
// so re-expanding an old unbounded schedule keeps yielding new dates.
func (s Spec) AllDueDates(from time.Time, horizonMonths int) []time.Time {
	if horizonMonths <= 0 {
		horizonMonths = monthScanLimit
	}

	year, month, day := from.Date()
	anchor := time.Date(year, month, day, 0, 0, 0, 0, s.StartDate.Location())
	if anchor.Before(s.StartDate) {
		anchor = s.StartDate
	}
	windowEnd := anchor.AddDate(0, horizonMonths, 0)
	if s.EndDate != nil && s.EndDate.Before(windowEnd) {
		windowEnd = *s.EndDate
	}

	var dates []time.Time
	if s.includesStartDate() {
		dates = append(dates, s.StartDate)
	}

	current := s.StartDate
	for {
		next, ok := s.NextDueDate(current)
		if !ok || next.After(windowEnd) {
			break
		}
		dates = append(dates, next)
		current = next
	}
	return dates
}

func (s Spec) includesStartDate() bool {
	if s.Kind != KindCustomDays {
		return true
	}
	for _, d := range s.CustomDays {
		if d == s.StartDate.Day() {
			return true
		}
	}
	return false
}
