package timesheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/username/overwork-timesheet/internal/calendar"
)

type recordedCell struct {
	Value     any
	Formula   Formula
	IsFormula bool
	Style     Style
}

type recordedMerge struct {
	Span  Span
	Value any
	Style Style
}

// fakeSheet records every call; failRef makes writes to that cell fail
type fakeSheet struct {
	name         string
	cells        map[string]recordedCell
	merges       []recordedMerge
	widths       map[int]float64
	calls        []string
	gridlinesOff bool
	failRef      string
}

func (s *fakeSheet) check(at Coord) error {
	if s.failRef != "" && at.Ref() == s.failRef {
		return errors.New("disk full")
	}
	return nil
}

func (s *fakeSheet) Write(at Coord, value any, style Style) error {
	if err := s.check(at); err != nil {
		return err
	}
	s.cells[at.Ref()] = recordedCell{Value: value, Style: style}
	s.calls = append(s.calls, "write")
	return nil
}

func (s *fakeSheet) WriteFormula(at Coord, formula Formula, style Style) error {
	if err := s.check(at); err != nil {
		return err
	}
	s.cells[at.Ref()] = recordedCell{Formula: formula, IsFormula: true, Style: style}
	s.calls = append(s.calls, "formula")
	return nil
}

func (s *fakeSheet) Merge(span Span, value any, style Style) error {
	s.merges = append(s.merges, recordedMerge{Span: span, Value: value, Style: style})
	s.calls = append(s.calls, "merge")
	return nil
}

func (s *fakeSheet) SetColumnWidth(col int, width float64) error {
	s.widths[col] = width
	s.calls = append(s.calls, "width")
	return nil
}

func (s *fakeSheet) AutoFit() error {
	s.calls = append(s.calls, "autofit")
	return nil
}

func (s *fakeSheet) HideGridlines() error {
	s.gridlinesOff = true
	s.calls = append(s.calls, "gridlines")
	return nil
}

// callKinds collapses consecutive calls of the same kind
func (s *fakeSheet) callKinds() []string {
	var out []string
	for _, c := range s.calls {
		if len(out) == 0 || out[len(out)-1] != c {
			out = append(out, c)
		}
	}
	return out
}

type fakeWorkbook struct {
	sheets  []*fakeSheet
	closed  bool
	failRef string // cell of the first sheet that fails to write
	failAdd bool
}

func newFakeSheet(name string) *fakeSheet {
	return &fakeSheet{
		name:   name,
		cells:  map[string]recordedCell{},
		widths: map[int]float64{},
	}
}

func (w *fakeWorkbook) AddSheet(name string) (Sheet, error) {
	if w.failAdd {
		return nil, errors.New("too many sheets")
	}
	s := newFakeSheet(name)
	if len(w.sheets) == 0 {
		s.failRef = w.failRef
	}
	w.sheets = append(w.sheets, s)
	return s, nil
}

func (w *fakeWorkbook) Bytes() ([]byte, error) {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return []byte(strings.Join(names, ",")), nil
}

func (w *fakeWorkbook) Close() error {
	w.closed = true
	return nil
}

type stubSource struct {
	holidays calendar.HolidaySet
	err      error
	years    []int
}

func (s *stubSource) FetchHolidays(ctx context.Context, year int) (calendar.HolidaySet, error) {
	s.years = append(s.years, year)
	if s.err != nil {
		return nil, fmt.Errorf("fetch %d: %w", year, s.err)
	}
	return s.holidays, nil
}
