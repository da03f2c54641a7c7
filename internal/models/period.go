package models

import "time"

// Period is an enumerated lookback token.
type Period string

const (
	Period7D  Period = "7d"
	Period1Mo Period = "1mo"
	Period1Y  Period = "1y"
	Period3Y  Period = "3y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// periodDays maps each bounded period to its calendar-day offset.
var periodDays = map[Period]int{
	Period7D:  7,
	Period1Mo: 30,
	Period1Y:  365,
	Period3Y:  1095,
	Period5Y:  1825,
}

// MaxEpoch is the start date used for the "max" period.
var MaxEpoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Valid reports whether the token is in the enumerated set.
func (p Period) Valid() bool {
	if p == PeriodMax {
		return true
	}
	_, ok := periodDays[p]
	return ok
}

// Days returns the calendar-day offset for a bounded period, or 0 for "max".
func (p Period) Days() int {
	return periodDays[p]
}

// ValidPeriods lists the accepted tokens, for error messages.
func ValidPeriods() []string {
	return []string{"7d", "1mo", "1y", "3y", "5y", "max"}
}
