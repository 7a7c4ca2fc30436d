package timesheet

import (
	"fmt"
	"strings"

	"github.com/username/overwork-timesheet/internal/calendar"
)

// Formula is spreadsheet formula text without the leading '='
type Formula string

const (
	// BaselineHoursPerDay is credited for every usual working day
	BaselineHoursPerDay = 8
	// OvertimeMultiplier is the pay rate of extra hours
	OvertimeMultiplier = 2
)

// SumOf renders a sum of cell references; an empty list sums to "0"
func SumOf(refs []Coord) Formula {
	if len(refs) == 0 {
		return "0"
	}

	parts := make([]string, len(refs))
	for i, c := range refs {
		parts[i] = c.Ref()
	}
	return Formula(strings.Join(parts, "+"))
}

// BonusFormula is the extra pay of a day: salary / baseline hours * day hours * 2
func BonusFormula(l Layout, day int) Formula {
	return Formula(fmt.Sprintf("%s/%s*%s*%d",
		l.Cell(SalaryValue).Ref(),
		l.Cell(TotalHoursValue).Ref(),
		l.DayCell(DayHours, day).Ref(),
		OvertimeMultiplier,
	))
}

// Tally is the per-month fold over day categories
type Tally struct {
	BaselineHours int
	Usual         []Coord // hours cells of usual days
	Off           []Coord // hours cells of weekend and earn days
	FirstDay      int
	LastDay       int
}

// TallyMonth walks the days of a month once and collects their hours cells by category
func TallyMonth(l Layout, days []calendar.Day) Tally {
	var t Tally
	for i, d := range days {
		if i == 0 {
			t.FirstDay = d.Date.Day
		}
		t.LastDay = d.Date.Day

		cell := l.DayCell(DayHours, d.Date.Day)
		if d.Category == calendar.Usual {
			t.BaselineHours += BaselineHoursPerDay
			t.Usual = append(t.Usual, cell)
		} else {
			t.Off = append(t.Off, cell)
		}
	}
	return t
}

// WeekendHours sums the hours of weekend and earn days
func (t Tally) WeekendHours() Formula {
	return SumOf(t.Off)
}

// Overwork sums the hours entered on usual days
func (t Tally) Overwork() Formula {
	return SumOf(t.Usual)
}

// TotalPayment is the salary plus every bonus of the month's day rows
func (t Tally) TotalPayment(l Layout) Formula {
	salary := l.Cell(SalaryValue).Ref()
	if t.LastDay == 0 {
		return Formula(salary)
	}

	return Formula(fmt.Sprintf("SUM(%s:%s)+%s",
		l.DayCell(DayBonus, t.FirstDay).Ref(),
		l.DayCell(DayBonus, t.LastDay).Ref(),
		salary,
	))
}
