package utils

import (
	"time"
)

// StartOfHour drops minutes, seconds and nanoseconds on the UTC clock, so
// one instant truncates the same way whatever offset it was written with.
func StartOfHour(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

// IsPast reports whether t is strictly before now.
func IsPast(t, now time.Time) bool {
	return t.Before(now)
}
