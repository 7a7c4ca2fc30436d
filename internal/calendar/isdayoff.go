package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/username/overwork-timesheet/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
)

// IsDayOffSource implements HolidaySource using isdayoff.ru bulk API
type IsDayOffSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIsDayOffSource creates a new IsDayOffSource instance.
// Empty baseURL means the public isdayoff.ru endpoint.
func NewIsDayOffSource(baseURL string, timeout time.Duration, logger *zap.Logger) *IsDayOffSource {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	return &IsDayOffSource{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		logger:     logger,
	}
}

// FetchHolidays fetches the whole year in one request and returns its non-working days
func (s *IsDayOffSource) FetchHolidays(ctx context.Context, year int) (HolidaySet, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025
	url := fmt.Sprintf("%s/api/getdata?year=%d", s.baseURL, year)

	s.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := httpGet(ctx, s.httpClient, url)
	if err != nil {
		return nil, err
	}

	holidays, err := parseBulkYear(year, string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	s.logger.Info("Holidays fetched from isdayoff.ru",
		zap.Int("year", year),
		zap.Int("non_working_days", len(holidays)))

	return holidays, nil
}

// parseBulkYear parses isdayoff.ru bulk response string
// Format: one digit per day of the year, where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (still working)
// 4 = covid non-working day (treated as non-working)
func parseBulkYear(year int, data string) (HolidaySet, error) {
	if len(data) != dateutil.DaysInYear(year) {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", dateutil.DaysInYear(year), len(data))
	}

	holidays := make(HolidaySet)
	date := FromTime(dateutil.FirstOfYear(year))
	for i, code := range data {
		switch code {
		case '0', '2':
		case '1', '4':
			holidays.Add(date)
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
		date = date.Next()
	}

	return holidays, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// httpGet performs a GET and returns the body of a 200 response
func httpGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
