package dateutil

import (
	"fmt"
	"time"
)

// FirstOfYear returns January 1st of the year at midnight UTC
func FirstOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// IsLeapYear reports whether the Gregorian year has 366 days
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalises to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
}

// ParseDate parses date string in various formats
// Supported: 2006-01-02, 02.01.2006 and RFC3339-like timestamps
func ParseDate(dateStr string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}
