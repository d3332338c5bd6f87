package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of entry dates.
const DateLayout = "2006-01-02"

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// PeriodLock closes the books for every date before LockedBefore.
type PeriodLock struct {
	LockedBefore *time.Time
	UpdatedBy    string
	UpdatedAt    time.Time
}

// Check rejects dates that fall in the locked period.
func (p PeriodLock) Check(date time.Time) error {
	if p.LockedBefore == nil {
		return nil
	}
	if DateOnly(date).Before(DateOnly(*p.LockedBefore)) {
		return fmt.Errorf("%w: entries dated before %s cannot be changed",
			ErrPeriodLocked, p.LockedBefore.Format(DateLayout))
	}
	return nil
}
