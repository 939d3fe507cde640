package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NextTimestampID derives an id from the current time in milliseconds.
// If the id is already taken, it is bumped until it is free.
func NextTimestampID(now time.Time, taken func(string) bool) string {
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if taken == nil || !taken(id) {
			return id
		}
		n++
	}
}

// ParseAmount parses user-entered numeric input. Anything unparsable becomes 0.
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
