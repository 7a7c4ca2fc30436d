package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/overwork-timesheet/internal/calendar"
)

func january2024(t *testing.T) calendar.MonthGroup {
	t.Helper()
	days, err := calendar.BuildYear(2024, calendar.NewHolidaySet(
		calendar.DateOf(2024, time.January, 1),
		calendar.DateOf(2024, time.January, 8),
	))
	require.NoError(t, err)
	return calendar.SplitMonths(days)[0]
}

func applyPlan(t *testing.T, plan SheetPlan) *fakeSheet {
	t.Helper()
	sheet := newFakeSheet(plan.Name)
	require.NoError(t, plan.Apply(sheet))
	return sheet
}

func TestAssemble_DayRows(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	plan := Assemble(january2024(t), 60000, DefaultLayout, r, Meta{AppInfo: "v1"})
	sheet := applyPlan(t, plan)

	assert.Equal(t, "❄️ Январь", plan.Name)

	// Jan 8, a Monday holiday
	label := sheet.cells["A11"]
	assert.Equal(t, "8 Пн", label.Value)
	assert.Equal(t, BorderMedium, label.Style.LeftEdge)
	assert.Equal(t, "B2E19E", label.Style.Fill)

	hours := sheet.cells["B11"]
	assert.Equal(t, 0, hours.Value)
	assert.Equal(t, "B2E19E", hours.Style.Fill)

	bonus := sheet.cells["C11"]
	assert.True(t, bonus.IsFormula)
	assert.Equal(t, Formula("E5/E1*B11*2"), bonus.Formula)
	assert.Equal(t, `#,##0.00" ₽"`, bonus.Style.NumFormat)

	// Jan 7, Sunday
	assert.Equal(t, "F8B9B8", sheet.cells["B10"].Style.Fill)
	// Jan 2, usual Tuesday
	assert.Equal(t, "", sheet.cells["B5"].Style.Fill)
	assert.Equal(t, "2 Вт", sheet.cells["A5"].Value)

	// every day of the month has its three cells
	for day := 1; day <= 31; day++ {
		for _, role := range []CellRole{DayLabel, DayHours, DayBonus} {
			_, ok := sheet.cells[DefaultLayout.DayCell(role, day).Ref()]
			assert.True(t, ok, "%s of day %d", role, day)
		}
	}
}

func TestAssemble_FixedCells(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	sheet := applyPlan(t, Assemble(january2024(t), 60000, DefaultLayout, r, Meta{AppInfo: "v1"}))

	assert.Equal(t, 2024, sheet.cells["A1"].Value)
	assert.Equal(t, "Число/День", sheet.cells["A3"].Value)
	assert.Equal(t, "Часы", sheet.cells["B3"].Value)
	assert.Equal(t, "F0C2A7", sheet.cells["B3"].Style.Fill)
	assert.Equal(t, "Доплата", sheet.cells["C3"].Value)

	assert.Equal(t, "Рабочие часы:", sheet.cells["D1"].Value)
	assert.Equal(t, 168, sheet.cells["E1"].Value)
	assert.Equal(t, "Часы выходных:", sheet.cells["D2"].Value)
	assert.Equal(t, Formula("B4+B9+B10+B11+B16+B17+B23+B24+B30+B31"), sheet.cells["E2"].Formula)
	assert.Equal(t, "Часы переработки:", sheet.cells["D3"].Value)
	assert.True(t, sheet.cells["E3"].IsFormula)

	assert.Equal(t, "Оклад:", sheet.cells["D5"].Value)
	salary := sheet.cells["E5"]
	assert.True(t, salary.IsFormula)
	assert.Equal(t, Formula("60000"), salary.Formula)
	assert.Equal(t, `#,##0.00" ₽"`, salary.Style.NumFormat)

	assert.Equal(t, "К получению:", sheet.cells["D6"].Value)
	assert.Equal(t, Formula("SUM(C4:C34)+E5"), sheet.cells["E6"].Formula)
	assert.Equal(t, "B2E19E", sheet.cells["E6"].Style.Fill)
	assert.True(t, sheet.cells["E6"].Style.Bold)
}

func TestAssemble_MergesAndPolish(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	sheet := applyPlan(t, Assemble(january2024(t), 0, DefaultLayout, r, Meta{AppInfo: "v1"}))

	require.Len(t, sheet.merges, 3)

	assert.Equal(t, "B1", sheet.merges[0].Span.From.Ref())
	assert.Equal(t, "C1", sheet.merges[0].Span.To.Ref())
	assert.Equal(t, "v1", sheet.merges[0].Value)

	banner := sheet.merges[1]
	assert.Equal(t, "A2", banner.Span.From.Ref())
	assert.Equal(t, "C2", banner.Span.To.Ref())
	assert.Equal(t, "❄️ Январь", banner.Value)
	assert.Equal(t, "C6E8F4", banner.Style.Fill)

	closing := sheet.merges[2]
	assert.Equal(t, "A35", closing.Span.From.Ref())
	assert.Equal(t, "C35", closing.Span.To.Ref())
	assert.Equal(t, BorderMedium, closing.Style.TopEdge)

	assert.True(t, sheet.gridlinesOff)
	assert.Equal(t, map[int]float64{1: 7.5, 2: 10, 4: 12}, sheet.widths)

	kinds := sheet.callKinds()
	assert.Equal(t, []string{"merge", "gridlines", "autofit", "width"}, kinds[len(kinds)-4:])
}

func TestAssemble_ZeroSalaryIsEmptyInput(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	sheet := applyPlan(t, Assemble(january2024(t), 0, DefaultLayout, r, Meta{}))

	salary := sheet.cells["E5"]
	assert.True(t, salary.IsFormula)
	assert.Equal(t, Formula(""), salary.Formula)
}

func TestAssemble_SeasonBanner(t *testing.T) {
	days, err := calendar.BuildYear(2024, calendar.NewHolidaySet())
	require.NoError(t, err)
	groups := calendar.SplitMonths(days)

	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	want := map[time.Month]string{
		time.February: "C6E8F4",
		time.April:    "B2E19E",
		time.July:     "FFE699",
		time.October:  "F0C1A7",
		time.December: "C6E8F4",
	}
	for month, fill := range want {
		plan := Assemble(groups[month-1], 0, DefaultLayout, r, Meta{})
		assert.Equal(t, fill, plan.Merges[1].Style.Fill, month.String())
	}
}

func TestAssemble_IsPure(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	group := january2024(t)

	first := Assemble(group, 1000, DefaultLayout, r, Meta{AppInfo: "x"})
	second := Assemble(group, 1000, DefaultLayout, r, Meta{AppInfo: "x"})
	assert.Equal(t, first, second)
}

func TestSheetPlan_ApplyStopsOnSinkError(t *testing.T) {
	r := NewResolver(DefaultPalette(), DefaultCurrencySuffix)
	plan := Assemble(january2024(t), 0, DefaultLayout, r, Meta{})

	sheet := newFakeSheet(plan.Name)
	sheet.failRef = "C5"

	err := plan.Apply(sheet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSinkWrite))
	assert.ErrorContains(t, err, "DayBonus at C5")
	assert.ErrorContains(t, err, "disk full")

	assert.Empty(t, sheet.merges)
	assert.False(t, sheet.gridlinesOff)
}
