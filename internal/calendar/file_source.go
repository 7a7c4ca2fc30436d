package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/username/overwork-timesheet/pkg/dateutil"
	"go.uber.org/zap"
)

// FileSource implements HolidaySource using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// FetchHolidays reads the file on every call and returns the dates of the given year
func (fs *FileSource) FetchHolidays(ctx context.Context, year int) (HolidaySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	holidays := make(HolidaySet)
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse line
		// Format: YYYY-MM-DD [note] or DD.MM.YYYY [note]
		// Example: 2025-01-01 Новогодние каникулы
		dateStr, _, _ := strings.Cut(line, " ")

		date, err := dateutil.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", fs.filePath, lineNo, err)
		}

		if date.Year() != year {
			continue
		}
		holidays.Add(FromTime(date))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holidays file: %w", err)
	}

	fs.logger.Info("Holidays file loaded",
		zap.String("file", fs.filePath),
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}
