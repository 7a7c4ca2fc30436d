package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/overwork-timesheet/pkg/dateutil"
)

// MinSupportedYear is the first year covered by the holiday sources
const MinSupportedYear = 2017

// ErrUnsupportedYear is returned for years before MinSupportedYear
var ErrUnsupportedYear = errors.New("unsupported year")

// CheckYear fails for years the holiday sources do not cover
func CheckYear(year int) error {
	if year < MinSupportedYear {
		return fmt.Errorf("%w: %d is before %d", ErrUnsupportedYear, year, MinSupportedYear)
	}
	return nil
}

// Classify assigns the work category of a date.
// Sunday wins over everything, then Saturday or holiday, otherwise a usual day.
func Classify(d Date, holidays HolidaySet) Category {
	if d.Weekday == time.Sunday {
		return Weekend
	}
	if d.Weekday == time.Saturday || holidays.Contains(d) {
		return EarnDay
	}
	return Usual
}

// BuildYear returns every day of the year in ascending order, classified
func BuildYear(year int, holidays HolidaySet) ([]Day, error) {
	if err := CheckYear(year); err != nil {
		return nil, err
	}

	days := make([]Day, 0, dateutil.DaysInYear(year))
	for d := FromTime(dateutil.FirstOfYear(year)); d.Year == year; d = d.Next() {
		days = append(days, Day{Date: d, Category: Classify(d, holidays)})
	}

	return days, nil
}

// SplitMonths cuts an ordered day sequence into month groups.
// The input must already be date-ordered; groups share the backing array.
func SplitMonths(days []Day) []MonthGroup {
	var groups []MonthGroup

	start := 0
	for i := 1; i <= len(days); i++ {
		if i < len(days) && days[i].Date.Month == days[start].Date.Month && days[i].Date.Year == days[start].Date.Year {
			continue
		}
		groups = append(groups, MonthGroup{
			Year:  days[start].Date.Year,
			Month: days[start].Date.Month,
			Days:  days[start:i:i],
		})
		start = i
	}

	return groups
}
