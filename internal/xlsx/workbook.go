package xlsx

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/username/overwork-timesheet/internal/timesheet"
)

const (
	autoFitCharWidth = 1.2
	autoFitPadding   = 2.0
	autoFitMaxWidth  = 60.0
)

var (
	_ timesheet.Workbook = (*Workbook)(nil)
	_ timesheet.Sheet    = (*Sheet)(nil)
)

// Workbook is a timesheet.Workbook backed by an excelize file
type Workbook struct {
	file   *excelize.File
	styles map[timesheet.Style]int
	sheets int
	logger *zap.Logger
}

// NewWorkbook creates an empty workbook
func NewWorkbook(logger *zap.Logger) *Workbook {
	return &Workbook{
		file:   excelize.NewFile(),
		styles: make(map[timesheet.Style]int),
		logger: logger,
	}
}

// Factory returns a timesheet.WorkbookFactory producing excelize workbooks
func Factory(logger *zap.Logger) timesheet.WorkbookFactory {
	return func() timesheet.Workbook {
		return NewWorkbook(logger)
	}
}

// AddSheet appends a sheet. The first one takes over the default sheet of a new file.
func (w *Workbook) AddSheet(name string) (timesheet.Sheet, error) {
	if w.sheets == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return nil, fmt.Errorf("failed to rename default sheet to %q: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	w.sheets++

	return &Sheet{
		wb:      w,
		name:    name,
		longest: make(map[int]int),
	}, nil
}

// Bytes serializes the workbook
func (w *Workbook) Bytes() ([]byte, error) {
	if w.sheets == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Debug("Workbook serialized",
		zap.Int("sheets", w.sheets),
		zap.Int("styles", len(w.styles)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// Close releases the excelize file
func (w *Workbook) Close() error {
	return w.file.Close()
}

// styleID registers a style once per workbook
func (w *Workbook) styleID(s timesheet.Style) (int, error) {
	if id, ok := w.styles[s]; ok {
		return id, nil
	}

	style, err := toExcelize(s)
	if err != nil {
		return 0, err
	}
	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to register style: %w", err)
	}

	w.styles[s] = id
	return id, nil
}

// Sheet is one worksheet of a Workbook
type Sheet struct {
	wb   *Workbook
	name string
	// longest text written per column, in runes
	longest map[int]int
}

func (s *Sheet) style(from, to timesheet.Coord, style timesheet.Style) error {
	id, err := s.wb.styleID(style)
	if err != nil {
		return err
	}
	return s.wb.file.SetCellStyle(s.name, from.Ref(), to.Ref(), id)
}

// Write sets a plain value
func (s *Sheet) Write(at timesheet.Coord, value any, style timesheet.Style) error {
	if err := s.wb.file.SetCellValue(s.name, at.Ref(), value); err != nil {
		return fmt.Errorf("set value %s: %w", at.Ref(), err)
	}
	s.measure(at.Col, value)
	return s.style(at, at, style)
}

// WriteFormula sets a formula; an empty formula leaves a styled blank input cell
func (s *Sheet) WriteFormula(at timesheet.Coord, formula timesheet.Formula, style timesheet.Style) error {
	if formula != "" {
		if err := s.wb.file.SetCellFormula(s.name, at.Ref(), string(formula)); err != nil {
			return fmt.Errorf("set formula %s: %w", at.Ref(), err)
		}
	}
	return s.style(at, at, style)
}

// Merge merges span, writes value into its top-left cell and styles the whole range
func (s *Sheet) Merge(span timesheet.Span, value any, style timesheet.Style) error {
	from, to := span.From.Ref(), span.To.Ref()
	if from != to {
		if err := s.wb.file.MergeCell(s.name, from, to); err != nil {
			return fmt.Errorf("merge %s:%s: %w", from, to, err)
		}
	}
	if err := s.wb.file.SetCellValue(s.name, from, value); err != nil {
		return fmt.Errorf("set value %s: %w", from, err)
	}
	return s.style(span.From, span.To, style)
}

// SetColumnWidth sets the width of a zero-based column
func (s *Sheet) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return err
	}
	return s.wb.file.SetColWidth(s.name, name, name, width)
}

// AutoFit sizes every written column after its longest plain value.
// Formulas and merged values are not measured.
func (s *Sheet) AutoFit() error {
	for col, runes := range s.longest {
		width := min(float64(runes)*autoFitCharWidth+autoFitPadding, autoFitMaxWidth)
		if err := s.SetColumnWidth(col, width); err != nil {
			return err
		}
	}
	return nil
}

// HideGridlines turns gridlines off in the default sheet view
func (s *Sheet) HideGridlines() error {
	show := false
	return s.wb.file.SetSheetView(s.name, 0, &excelize.ViewOptions{ShowGridLines: &show})
}

func (s *Sheet) measure(col int, value any) {
	n := utf8.RuneCountInString(fmt.Sprint(value))
	if n > s.longest[col] {
		s.longest[col] = n
	}
}
