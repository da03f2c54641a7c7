// Package reconcile implements the incremental reconciliation cache: gap
// analysis over the persistent price store, a bounded-retry upstream fetch of
// only the missing range, and a merge that degrades to cached data on failure.
package reconcile

import (
	"fmt"
	"time"

	"github.com/bobmcallan/stocknews/internal/models"
)

// ResolvePeriod converts a period token into a concrete [start, end] date
// range. end is now truncated to a UTC calendar date; start is end minus the
// token's fixed offset, or the max epoch. Unknown tokens fail with
// models.ErrInvalidPeriod before any store or network access.
func ResolvePeriod(period models.Period, now time.Time) (start, end time.Time, err error) {
	if !period.Valid() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidPeriod, period)
	}

	end = truncateToDate(now.UTC())
	if period == models.PeriodMax {
		return models.MaxEpoch, end, nil
	}
	return end.AddDate(0, 0, -period.Days()), end, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
