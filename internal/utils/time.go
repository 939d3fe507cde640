package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/clientmgr/internal/constants"
)

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// Today returns the date of now in the standard format.
func Today(now time.Time) string {
	return now.Format(constants.DateFormat)
}

// AddDays returns the date n days after now in the standard format.
func AddDays(now time.Time, n int) string {
	return now.AddDate(0, 0, n).Format(constants.DateFormat)
}

// DaysRemaining returns the number of whole days, rounded up, from now until
// the given date. Past dates and unparsable input report 0.
func DaysRemaining(date string, now time.Time) int {
	target, err := time.ParseInLocation(constants.DateFormat, date, now.Location())
	if err != nil {
		return 0
	}
	days := int(math.Ceil(target.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// IsDeadlineSoon reports whether the date is less than a week away but not yet passed.
func IsDeadlineSoon(date string, now time.Time) bool {
	days := DaysRemaining(date, now)
	return days > 0 && days < constants.DeadlineSoonDays
}
