package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FallbackSource implements HolidaySource with fallback strategy
// Primary: usually an HTTP source
// Fallback: usually a FileSource kept next to the binary
type FallbackSource struct {
	primary  HolidaySource
	fallback HolidaySource
	logger   *zap.Logger
}

// NewFallbackSource creates a new FallbackSource
func NewFallbackSource(primary, fallback HolidaySource, logger *zap.Logger) *FallbackSource {
	return &FallbackSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchHolidays asks the primary source once, then the fallback once
func (fs *FallbackSource) FetchHolidays(ctx context.Context, year int) (HolidaySet, error) {
	holidays, err := fs.primary.FetchHolidays(ctx, year)
	if err == nil {
		return holidays, nil
	}

	fs.logger.Warn("Primary holiday source failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	holidays, fallbackErr := fs.fallback.FetchHolidays(ctx, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	fs.logger.Info("Using fallback holidays", zap.Int("year", year))
	return holidays, nil
}
