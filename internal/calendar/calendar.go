package calendar

import (
	"context"
	"fmt"
	"time"
)

// Category represents how a day is paid
type Category int

const (
	// Usual is a regular working day with baseline hours
	Usual Category = iota
	// EarnDay is a Saturday or a public holiday, paid at double rate
	EarnDay
	// Weekend is a Sunday: no bonus and no baseline hours
	Weekend
)

func (c Category) String() string {
	switch c {
	case Usual:
		return "usual"
	case EarnDay:
		return "earn"
	case Weekend:
		return "weekend"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Season is derived from the month and only affects month header styling
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Autumn
)

func (s Season) String() string {
	switch s {
	case Winter:
		return "winter"
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	default:
		return fmt.Sprintf("Season(%d)", int(s))
	}
}

// SeasonOf returns the season a month belongs to
func SeasonOf(month time.Month) Season {
	switch month {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

// Date is a plain calendar date. Build it with DateOf so Weekday is always consistent.
type Date struct {
	Year    int
	Month   time.Month
	Day     int
	Weekday time.Weekday
}

// DateOf normalises year/month/day (like time.Date) and derives the weekday
func DateOf(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime drops the clock part of t
func FromTime(t time.Time) Date {
	return Date{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Weekday: t.Weekday(),
	}
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar day
func (d Date) Next() Date {
	return DateOf(d.Year, d.Month, d.Day+1)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Day pairs a date with its category
type Day struct {
	Date     Date
	Category Category
}

// Label returns the day-row caption, e.g. "8 Пн"
func (d Day) Label() string {
	return fmt.Sprintf("%d %s", d.Date.Day, WeekdayShort(d.Date.Weekday))
}

// MonthGroup is a contiguous, non-empty run of days of one month
type MonthGroup struct {
	Year  int
	Month time.Month
	Days  []Day
}

// Season returns the season of the group's month
func (g MonthGroup) Season() Season {
	return SeasonOf(g.Month)
}

// Name returns the display name used for the worksheet
func (g MonthGroup) Name() string {
	return MonthName(g.Month)
}

// HolidaySet is the set of public holidays of one year
type HolidaySet map[Date]struct{}

// NewHolidaySet builds a set from dates
func NewHolidaySet(dates ...Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

// Add inserts a date, re-deriving the weekday so lookups always match DateOf values
func (h HolidaySet) Add(d Date) {
	h[DateOf(d.Year, d.Month, d.Day)] = struct{}{}
}

// Contains reports whether d is a holiday
func (h HolidaySet) Contains(d Date) bool {
	_, ok := h[d]
	return ok
}

// ForYear returns the subset of dates belonging to year
func (h HolidaySet) ForYear(year int) HolidaySet {
	out := make(HolidaySet)
	for d := range h {
		if d.Year == year {
			out[d] = struct{}{}
		}
	}
	return out
}

// HolidaySource supplies the public holidays of a year
type HolidaySource interface {
	// FetchHolidays returns the holiday dates of the given year.
	// Network or decoding failures are returned as errors, never as an empty set.
	FetchHolidays(ctx context.Context, year int) (HolidaySet, error)
}
