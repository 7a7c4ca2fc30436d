package timesheet

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"github.com/username/overwork-timesheet/internal/calendar"
	"go.uber.org/zap"
)

// Options tune the rendering; zero values fall back to the defaults
type Options struct {
	Layout         *Layout
	Palette        *Palette
	CurrencySuffix *string
	AppInfo        string
}

// Engine turns a year and a salary into a timesheet workbook
type Engine struct {
	source      calendar.HolidaySource
	newWorkbook WorkbookFactory
	layout      Layout
	resolver    *Resolver
	meta        Meta
	logger      *zap.Logger
}

// NewEngine creates a new engine. The layout is validated once here.
func NewEngine(
	source calendar.HolidaySource,
	newWorkbook WorkbookFactory,
	opts Options,
	logger *zap.Logger,
) (*Engine, error) {
	layout := DefaultLayout
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	palette := DefaultPalette()
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	suffix := DefaultCurrencySuffix
	if opts.CurrencySuffix != nil {
		suffix = *opts.CurrencySuffix
	}

	return &Engine{
		source:      source,
		newWorkbook: newWorkbook,
		layout:      layout,
		resolver:    NewResolver(palette, suffix),
		meta:        Meta{AppInfo: opts.AppInfo},
		logger:      logger,
	}, nil
}

// Build renders the timesheet of a year and returns the serialized workbook
func (e *Engine) Build(ctx context.Context, year, salary int) ([]byte, error) {
	if err := calendar.CheckYear(year); err != nil {
		return nil, err
	}
	if salary < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSalary, salary)
	}

	e.logger.Info("Building timesheet",
		zap.Int("year", year),
		zap.Int("salary", salary))

	holidays, err := e.source.FetchHolidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHolidaySource, err)
	}
	holidays = holidays.ForYear(year)

	days, err := calendar.BuildYear(year, holidays)
	if err != nil {
		return nil, err
	}
	groups := calendar.SplitMonths(days)

	plans := iter.Map(groups, func(g *calendar.MonthGroup) SheetPlan {
		return Assemble(*g, salary, e.layout, e.resolver, e.meta)
	})

	wb := e.newWorkbook()
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			e.logger.Warn("Failed to close workbook", zap.Error(cerr))
		}
	}()

	for _, plan := range plans {
		sheet, err := wb.AddSheet(plan.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: add sheet %s: %w", ErrSinkWrite, plan.Name, err)
		}
		if err := plan.Apply(sheet); err != nil {
			return nil, err
		}
		e.logger.Debug("Month sheet written",
			zap.String("month", plan.Month.String()),
			zap.Int("cells", len(plan.Cells)))
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize: %w", ErrSinkWrite, err)
	}

	e.logger.Info("Timesheet built",
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)),
		zap.Int("sheets", len(plans)),
		zap.Int("bytes", len(data)))

	return data, nil
}
