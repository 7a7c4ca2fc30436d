package timesheet

import (
	"fmt"
	"strconv"
	"time"

	"github.com/username/overwork-timesheet/internal/calendar"
)

// Meta carries the per-workbook captions
type Meta struct {
	AppInfo string
}

var captions = map[CellRole]string{
	TotalHoursLabel:   "Рабочие часы:",
	WeekendHoursLabel: "Часы выходных:",
	OverworkLabel:     "Часы переработки:",
	SalaryLabel:       "Оклад:",
	TotalPaymentLabel: "К получению:",
}

const (
	dayLabelCaption = "Число/День"
	hoursCaption    = "Часы"
	bonusCaption    = "Доплата"
)

// CellOp writes a value or a formula into one cell
type CellOp struct {
	At        Coord
	Role      CellRole
	Value     any
	Formula   Formula
	IsFormula bool
	Style     Style
}

// MergeOp merges a range and writes its top-left value
type MergeOp struct {
	Span  Span
	Name  string
	Value any
	Style Style
}

// ColumnWidth pins a column width after autofit
type ColumnWidth struct {
	Col   int
	Width float64
}

// SheetPlan is everything a month sheet needs, computed without touching a sink
type SheetPlan struct {
	Name   string
	Month  time.Month
	Cells  []CellOp
	Merges []MergeOp
	Widths []ColumnWidth
}

// Assemble plans the sheet of one month
func Assemble(group calendar.MonthGroup, salary int, l Layout, r *Resolver, meta Meta) SheetPlan {
	season := group.Season()
	plan := SheetPlan{
		Name:  group.Name(),
		Month: group.Month,
	}

	style := func(role CellRole, kind DataKind) Style {
		return r.Resolve(ClassOf(role, calendar.Usual, season), kind)
	}
	value := func(at Coord, role CellRole, v any, s Style) {
		plan.Cells = append(plan.Cells, CellOp{At: at, Role: role, Value: v, Style: s})
	}
	formula := func(at Coord, role CellRole, f Formula, s Style) {
		plan.Cells = append(plan.Cells, CellOp{At: at, Role: role, Formula: f, IsFormula: true, Style: s})
	}

	for _, d := range group.Days {
		s := r.Resolve(CategoryClass(d.Category), PlainText)
		money := r.Resolve(CategoryClass(d.Category), CurrencyAmount)
		day := d.Date.Day

		value(l.DayCell(DayLabel, day), DayLabel, d.Label(), s.WithLeftEdge(BorderMedium))
		value(l.DayCell(DayHours, day), DayHours, 0, s)
		formula(l.DayCell(DayBonus, day), DayBonus, BonusFormula(l, day), money)
	}

	tally := TallyMonth(l, group.Days)
	header := style(Header, PlainText)

	value(l.Year, Header, group.Year, header)
	value(l.DayLabelHeader, Header, dayLabelCaption, header)
	value(l.HoursHeader, InputHeader, hoursCaption, style(InputHeader, PlainText))
	value(l.BonusHeader, Header, bonusCaption, header)

	for _, role := range []CellRole{TotalHoursLabel, WeekendHoursLabel, OverworkLabel, SalaryLabel, TotalPaymentLabel} {
		value(l.Cell(role), role, captions[role], style(role, PlainText))
	}

	value(l.Cell(TotalHoursValue), TotalHoursValue, tally.BaselineHours, style(TotalHoursValue, PlainText))
	formula(l.Cell(WeekendHoursValue), WeekendHoursValue, tally.WeekendHours(), style(WeekendHoursValue, PlainText))
	formula(l.Cell(OverworkValue), OverworkValue, tally.Overwork(), style(OverworkValue, PlainText))
	formula(l.Cell(SalaryValue), SalaryValue, salaryInput(salary), style(SalaryValue, CurrencyAmount))
	formula(l.Cell(TotalPaymentValue), TotalPaymentValue, tally.TotalPayment(l), style(TotalPaymentValue, CurrencyAmount))

	plan.Merges = append(plan.Merges,
		MergeOp{Span: l.AppInfo, Name: "app info", Value: meta.AppInfo, Style: header},
		MergeOp{Span: l.BannerSpan(), Name: "month banner", Value: group.Name(), Style: style(MonthBanner, PlainText)},
	)
	if len(group.Days) > 0 {
		plan.Merges = append(plan.Merges, closingRow(l, tally.LastDay))
	}

	plan.Widths = []ColumnWidth{
		{Col: l.DayCols[DayHours], Width: 7.5},
		{Col: l.DayCols[DayBonus], Width: 10},
		{Col: l.Cell(SalaryValue).Col, Width: 12},
	}

	return plan
}

// salaryInput leaves the cell empty for a zero salary so it reads as "to be filled in"
func salaryInput(salary int) Formula {
	if salary == 0 {
		return ""
	}
	return Formula(strconv.Itoa(salary))
}

func closingRow(l Layout, lastDay int) MergeOp {
	from, to := l.DayCols[DayLabel], l.DayCols[DayLabel]
	for _, col := range l.DayCols {
		from = min(from, col)
		to = max(to, col)
	}

	row := l.ClosingRow(lastDay)
	return MergeOp{
		Span:  Span{From: Coord{Row: row, Col: from}, To: Coord{Row: row, Col: to}},
		Name:  "closing row",
		Value: "",
		Style: Style{TopEdge: BorderMedium, Align: AlignCenter},
	}
}

// Apply writes the plan into a sheet. The first failure aborts the sheet.
func (p SheetPlan) Apply(sheet Sheet) error {
	for _, c := range p.Cells {
		var err error
		if c.IsFormula {
			err = sheet.WriteFormula(c.At, c.Formula, c.Style)
		} else {
			err = sheet.Write(c.At, c.Value, c.Style)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %s at %s: %w", ErrSinkWrite, p.Name, c.Role, c.At.Ref(), err)
		}
	}

	for _, m := range p.Merges {
		if err := sheet.Merge(m.Span, m.Value, m.Style); err != nil {
			return fmt.Errorf("%w: %s: merge %s: %w", ErrSinkWrite, p.Name, m.Name, err)
		}
	}

	if err := sheet.HideGridlines(); err != nil {
		return fmt.Errorf("%w: %s: hide gridlines: %w", ErrSinkWrite, p.Name, err)
	}
	if err := sheet.AutoFit(); err != nil {
		return fmt.Errorf("%w: %s: autofit: %w", ErrSinkWrite, p.Name, err)
	}
	for _, w := range p.Widths {
		if err := sheet.SetColumnWidth(w.Col, w.Width); err != nil {
			return fmt.Errorf("%w: %s: column width: %w", ErrSinkWrite, p.Name, err)
		}
	}

	return nil
}
