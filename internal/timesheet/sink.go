package timesheet

import "errors"

var (
	// ErrHolidaySource wraps a failed holiday fetch
	ErrHolidaySource = errors.New("holiday source failed")
	// ErrSinkWrite wraps any document sink failure
	ErrSinkWrite = errors.New("document sink failed")
	// ErrInvalidSalary is returned for negative salaries
	ErrInvalidSalary = errors.New("invalid salary")
)

// Sheet is one worksheet of the output document
type Sheet interface {
	Write(at Coord, value any, style Style) error
	WriteFormula(at Coord, formula Formula, style Style) error
	Merge(span Span, value any, style Style) error
	SetColumnWidth(col int, width float64) error
	AutoFit() error
	HideGridlines() error
}

// Workbook collects sheets and serializes them
type Workbook interface {
	// AddSheet appends a sheet; the first call may rename a default sheet
	AddSheet(name string) (Sheet, error)
	Bytes() ([]byte, error)
	Close() error
}

// WorkbookFactory opens a fresh, empty workbook for every build
type WorkbookFactory func() Workbook
