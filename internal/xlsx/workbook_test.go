package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/username/overwork-timesheet/internal/calendar"
	"github.com/username/overwork-timesheet/internal/timesheet"
)

func openBytes(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook_RoundTrip(t *testing.T) {
	wb := NewWorkbook(zap.NewNop())
	defer wb.Close()

	resolver := timesheet.NewResolver(timesheet.DefaultPalette(), timesheet.DefaultCurrencySuffix)
	plain := resolver.Resolve(timesheet.ClassUsual, timesheet.PlainText)
	money := resolver.Resolve(timesheet.ClassTotalPayment, timesheet.CurrencyAmount)

	first, err := wb.AddSheet("first")
	require.NoError(t, err)
	require.NoError(t, first.Write(timesheet.Coord{Row: 0, Col: 0}, "hello", plain))
	require.NoError(t, first.Write(timesheet.Coord{Row: 1, Col: 0}, 42, plain))
	require.NoError(t, first.WriteFormula(timesheet.Coord{Row: 2, Col: 0}, "A2*2", money))
	require.NoError(t, first.WriteFormula(timesheet.Coord{Row: 3, Col: 0}, "", money))
	require.NoError(t, first.Merge(timesheet.Span{
		From: timesheet.Coord{Row: 0, Col: 1},
		To:   timesheet.Coord{Row: 0, Col: 2},
	}, "merged", plain))
	require.NoError(t, first.HideGridlines())
	require.NoError(t, first.AutoFit())
	require.NoError(t, first.SetColumnWidth(4, 12))

	second, err := wb.AddSheet("second")
	require.NoError(t, err)
	require.NoError(t, second.Write(timesheet.Coord{Row: 0, Col: 0}, "x", plain))

	data, err := wb.Bytes()
	require.NoError(t, err)

	f := openBytes(t, data)
	assert.Equal(t, []string{"first", "second"}, f.GetSheetList())

	v, err := f.GetCellValue("first", "A1")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	formula, err := f.GetCellFormula("first", "A3")
	require.NoError(t, err)
	assert.Equal(t, "A2*2", formula)

	empty, err := f.GetCellValue("first", "A4")
	require.NoError(t, err)
	assert.Empty(t, empty)

	merges, err := f.GetMergeCells("first")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "B1", merges[0].GetStartAxis())
	assert.Equal(t, "C1", merges[0].GetEndAxis())
	assert.Equal(t, "merged", merges[0].GetCellValue())

	view, err := f.GetSheetView("first", 0)
	require.NoError(t, err)
	require.NotNil(t, view.ShowGridLines)
	assert.False(t, *view.ShowGridLines)

	width, err := f.GetColWidth("first", "E")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)

	width, err = f.GetColWidth("first", "A")
	require.NoError(t, err)
	assert.InDelta(t, 5*autoFitCharWidth+autoFitPadding, width, 0.01)
}

func TestWorkbook_StylesAreCached(t *testing.T) {
	wb := NewWorkbook(zap.NewNop())
	defer wb.Close()

	style := timesheet.NewResolver(timesheet.DefaultPalette(), "").Resolve(timesheet.ClassWeekend, timesheet.PlainText)

	sheet, err := wb.AddSheet("s")
	require.NoError(t, err)
	for row := 0; row < 5; row++ {
		require.NoError(t, sheet.Write(timesheet.Coord{Row: row, Col: 0}, row, style))
	}
	assert.Len(t, wb.styles, 1)

	data, err := wb.Bytes()
	require.NoError(t, err)

	f := openBytes(t, data)
	a1, err := f.GetCellStyle("s", "A1")
	require.NoError(t, err)
	a5, err := f.GetCellStyle("s", "A5")
	require.NoError(t, err)
	assert.Equal(t, a1, a5)
}

func TestWorkbook_NoSheets(t *testing.T) {
	wb := NewWorkbook(zap.NewNop())
	defer wb.Close()

	_, err := wb.Bytes()
	assert.Error(t, err)
}

func TestWorkbook_InvalidSheetName(t *testing.T) {
	wb := NewWorkbook(zap.NewNop())
	defer wb.Close()

	_, err := wb.AddSheet("a")
	require.NoError(t, err)
	_, err = wb.AddSheet("b")
	require.NoError(t, err)

	// excelize rejects names longer than 31 characters
	_, err = wb.AddSheet("a sheet name that is far too long for excel")
	assert.Error(t, err)
}

func TestToExcelize(t *testing.T) {
	s := timesheet.Style{
		Border:    timesheet.BorderDotted,
		LeftEdge:  timesheet.BorderMedium,
		Bold:      true,
		Fill:      "F8B9B8",
		Align:     timesheet.AlignCenter,
		NumFormat: timesheet.CurrencyFormat(" ₽"),
	}

	got, err := toExcelize(s)
	require.NoError(t, err)

	require.NotNil(t, got.Font)
	assert.True(t, got.Font.Bold)
	require.NotNil(t, got.Alignment)
	assert.Equal(t, "center", got.Alignment.Horizontal)
	assert.Equal(t, []string{"#F8B9B8"}, got.Fill.Color)
	require.NotNil(t, got.CustomNumFmt)
	assert.Equal(t, `#,##0.00" ₽"`, *got.CustomNumFmt)

	sides := map[string]int{}
	for _, b := range got.Border {
		sides[b.Type] = b.Style
	}
	assert.Equal(t, map[string]int{"left": 2, "top": 4, "right": 4, "bottom": 4}, sides)
}

func TestToExcelize_TopEdgeOnly(t *testing.T) {
	got, err := toExcelize(timesheet.Style{TopEdge: timesheet.BorderMedium})
	require.NoError(t, err)

	require.Len(t, got.Border, 1)
	assert.Equal(t, "top", got.Border[0].Type)
	assert.Equal(t, 2, got.Border[0].Style)
	assert.Nil(t, got.Font)
}

type staticSource struct {
	holidays calendar.HolidaySet
}

func (s staticSource) FetchHolidays(ctx context.Context, year int) (calendar.HolidaySet, error) {
	return s.holidays, nil
}

func TestEngine_EndToEnd(t *testing.T) {
	src := staticSource{holidays: calendar.NewHolidaySet(
		calendar.DateOf(2024, time.January, 1),
		calendar.DateOf(2024, time.January, 8),
	)}

	engine, err := timesheet.NewEngine(src, Factory(zap.NewNop()), timesheet.Options{AppInfo: "overwork-timesheet"}, zap.NewNop())
	require.NoError(t, err)

	data, err := engine.Build(context.Background(), 2024, 60000)
	require.NoError(t, err)

	f := openBytes(t, data)
	sheets := f.GetSheetList()
	require.Len(t, sheets, 12)
	assert.Equal(t, "❄️ Январь", sheets[0])
	assert.Equal(t, "🎄 Декабрь", sheets[11])

	jan := sheets[0]
	cell := func(ref string) string {
		v, err := f.GetCellValue(jan, ref)
		require.NoError(t, err)
		return v
	}
	formula := func(ref string) string {
		v, err := f.GetCellFormula(jan, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "2024", cell("A1"))
	assert.Equal(t, "1 Пн", cell("A4"))
	assert.Equal(t, "8 Пн", cell("A11"))
	assert.Equal(t, "168", cell("E1"))
	assert.Equal(t, "E5/E1*B11*2", formula("C11"))
	assert.Equal(t, "SUM(C4:C34)+E5", formula("E6"))
	assert.Equal(t, "60000", formula("E5"))

	merges, err := f.GetMergeCells(jan)
	require.NoError(t, err)
	assert.Len(t, merges, 3)

	width, err := f.GetColWidth(jan, "C")
	require.NoError(t, err)
	assert.Equal(t, 10.0, width)
}
