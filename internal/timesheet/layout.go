package timesheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRole names every cell kind a month sheet contains
type CellRole int

const (
	DayLabel CellRole = iota
	DayHours
	DayBonus
	Header
	InputHeader
	TotalHoursLabel
	TotalHoursValue
	WeekendHoursLabel
	WeekendHoursValue
	OverworkLabel
	OverworkValue
	SalaryLabel
	SalaryValue
	TotalPaymentLabel
	TotalPaymentValue
	MonthBanner
)

var roleNames = [...]string{
	DayLabel:          "DayLabel",
	DayHours:          "DayHours",
	DayBonus:          "DayBonus",
	Header:            "Header",
	InputHeader:       "InputHeader",
	TotalHoursLabel:   "TotalHoursLabel",
	TotalHoursValue:   "TotalHoursValue",
	WeekendHoursLabel: "WeekendHoursLabel",
	WeekendHoursValue: "WeekendHoursValue",
	OverworkLabel:     "OverworkLabel",
	OverworkValue:     "OverworkValue",
	SalaryLabel:       "SalaryLabel",
	SalaryValue:       "SalaryValue",
	TotalPaymentLabel: "TotalPaymentLabel",
	TotalPaymentValue: "TotalPaymentValue",
	MonthBanner:       "MonthBanner",
}

func (r CellRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("CellRole(%d)", int(r))
	}
	return roleNames[r]
}

// IsDayRole reports whether the role lives in the per-day block
func (r CellRole) IsDayRole() bool {
	return r == DayLabel || r == DayHours || r == DayBonus
}

// Coord is a zero-based (row, column) position
type Coord struct {
	Row int
	Col int
}

// Ref renders the A1-style reference used in formulas, e.g. {3,1} -> "B4".
// Coordinates are checked by Layout.Validate, so a failure here is a programming error.
func (c Coord) Ref() string {
	ref, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		panic(fmt.Sprintf("timesheet: invalid coordinate %+v: %v", c, err))
	}
	return ref
}

// Span is an inclusive rectangle of cells, used for merged ranges
type Span struct {
	From Coord
	To   Coord
}

// MaxDaysInMonth bounds the day block
const MaxDaysInMonth = 31

// Layout is the static table of sheet coordinates.
//
// Day-row roles resolve to row DayOffset+day at their column; every other role has a
// fixed cell. The bonus formula references SalaryValue and TotalHoursValue, so those
// must stay where the layout publishes them.
type Layout struct {
	DayOffset int
	DayCols   map[CellRole]int
	Fixed     map[CellRole]Coord

	// MonthBanner is merged from its fixed cell to this column
	BannerEndCol int

	// Cells written in addition to the role table
	Year    Coord
	AppInfo Span

	// Header captions over the day columns
	DayLabelHeader Coord
	HoursHeader    Coord
	BonusHeader    Coord
}

// DefaultLayout keeps weekend hours on row 1 and overwork on row 2.
//
//	   A           B      C        D                  E
//	1  year        app info        Рабочие часы:      baseline hours
//	2  month banner                Часы выходных:     weekend hours
//	3  Число/День  Часы   Доплата  Часы переработки:  overwork hours
//	4  1 Пн        0      bonus
//	5  ...                         Оклад:             salary
//	6                              К получению:       total payment
var DefaultLayout = Layout{
	DayOffset: 2,
	DayCols: map[CellRole]int{
		DayLabel: 0,
		DayHours: 1,
		DayBonus: 2,
	},
	Fixed: map[CellRole]Coord{
		TotalHoursLabel:   {Row: 0, Col: 3},
		TotalHoursValue:   {Row: 0, Col: 4},
		WeekendHoursLabel: {Row: 1, Col: 3},
		WeekendHoursValue: {Row: 1, Col: 4},
		OverworkLabel:     {Row: 2, Col: 3},
		OverworkValue:     {Row: 2, Col: 4},
		SalaryLabel:       {Row: 4, Col: 3},
		SalaryValue:       {Row: 4, Col: 4},
		TotalPaymentLabel: {Row: 5, Col: 3},
		TotalPaymentValue: {Row: 5, Col: 4},
		MonthBanner:       {Row: 1, Col: 0},
	},
	BannerEndCol:   2,
	Year:           Coord{Row: 0, Col: 0},
	AppInfo:        Span{From: Coord{Row: 0, Col: 1}, To: Coord{Row: 0, Col: 2}},
	DayLabelHeader: Coord{Row: 2, Col: 0},
	HoursHeader:    Coord{Row: 2, Col: 1},
	BonusHeader:    Coord{Row: 2, Col: 2},
}

// DayCell returns the coordinate of a day-row role for a day of month
func (l Layout) DayCell(role CellRole, day int) Coord {
	col, ok := l.DayCols[role]
	if !ok {
		panic(fmt.Sprintf("timesheet: %s is not a day-row role", role))
	}
	return Coord{Row: l.DayOffset + day, Col: col}
}

// Cell returns the coordinate of a fixed-position role
func (l Layout) Cell(role CellRole) Coord {
	c, ok := l.Fixed[role]
	if !ok {
		panic(fmt.Sprintf("timesheet: %s has no fixed cell", role))
	}
	return c
}

// BannerSpan is the merged range of the month banner
func (l Layout) BannerSpan() Span {
	from := l.Cell(MonthBanner)
	return Span{From: from, To: Coord{Row: from.Row, Col: l.BannerEndCol}}
}

// ClosingRow is the row right below the last day of a month with days days
func (l Layout) ClosingRow(days int) int {
	return l.DayOffset + days + 1
}

// Validate checks that every role has a cell, coordinates are addressable and the fixed
// cells do not collide with each other or with the day block.
func (l Layout) Validate() error {
	for _, role := range []CellRole{DayLabel, DayHours, DayBonus} {
		col, ok := l.DayCols[role]
		if !ok {
			return fmt.Errorf("layout: missing column for %s", role)
		}
		if col < 0 {
			return fmt.Errorf("layout: negative column for %s", role)
		}
	}
	if l.DayOffset < 0 {
		return fmt.Errorf("layout: negative day offset")
	}

	dayCols := make(map[int]CellRole, len(l.DayCols))
	for role, col := range l.DayCols {
		if other, dup := dayCols[col]; dup {
			return fmt.Errorf("layout: %s and %s share column %d", role, other, col)
		}
		dayCols[col] = role
	}
	inDayBlock := func(c Coord) bool {
		_, isDayCol := dayCols[c.Col]
		return isDayCol && c.Row >= l.DayOffset+1 && c.Row <= l.DayOffset+MaxDaysInMonth
	}

	seen := make(map[Coord]CellRole, len(l.Fixed))
	for role := DayLabel; role <= MonthBanner; role++ {
		if role.IsDayRole() {
			continue
		}
		if role == Header || role == InputHeader {
			// styling roles, placed through the header captions
			continue
		}
		c, ok := l.Fixed[role]
		if !ok {
			return fmt.Errorf("layout: missing cell for %s", role)
		}
		if c.Row < 0 || c.Col < 0 {
			return fmt.Errorf("layout: negative coordinate for %s", role)
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("layout: %s and %s share cell %s", role, other, c.Ref())
		}
		if inDayBlock(c) {
			return fmt.Errorf("layout: %s at %s overlaps the day block", role, c.Ref())
		}
		seen[c] = role
	}

	for _, c := range []Coord{l.Year, l.DayLabelHeader, l.HoursHeader, l.BonusHeader, l.AppInfo.From, l.AppInfo.To} {
		if c.Row < 0 || c.Col < 0 {
			return fmt.Errorf("layout: negative coordinate %+v", c)
		}
		if inDayBlock(c) {
			return fmt.Errorf("layout: header cell %s overlaps the day block", c.Ref())
		}
	}

	if banner := l.Fixed[MonthBanner]; l.BannerEndCol < banner.Col {
		return fmt.Errorf("layout: banner ends before it starts")
	}

	return nil
}
