package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultGitHubURL is the community-maintained Russian holiday calendar
const DefaultGitHubURL = "https://raw.githubusercontent.com/d10xa/holidays-calendar/refs/heads/master/json/calendar.json"

// GitHubSource implements HolidaySource on top of the holidays-calendar JSON file
type GitHubSource struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// holidaysCalendar represents holidays-calendar JSON structure
type holidaysCalendar struct {
	Holidays    []string `json:"holidays"`
	Preholidays []string `json:"preholidays"`
	Nowork      []string `json:"nowork"`
}

// NewGitHubSource creates a new GitHubSource. Empty url means DefaultGitHubURL.
func NewGitHubSource(url string, timeout time.Duration, logger *zap.Logger) *GitHubSource {
	if url == "" {
		url = DefaultGitHubURL
	}
	return &GitHubSource{
		url:        url,
		httpClient: newHTTPClient(timeout),
		logger:     logger,
	}
}

// FetchHolidays downloads the whole calendar and keeps the dates of the requested year
func (s *GitHubSource) FetchHolidays(ctx context.Context, year int) (HolidaySet, error) {
	s.logger.Debug("Downloading holidays calendar",
		zap.String("url", s.url),
		zap.Int("year", year))

	body, err := httpGet(ctx, s.httpClient, s.url)
	if err != nil {
		return nil, err
	}

	var cal holidaysCalendar
	if err := json.Unmarshal(body, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}

	holidays := make(HolidaySet)
	for _, raw := range cal.Holidays {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday %q: %w", raw, err)
		}
		if t.Year() != year {
			continue
		}
		holidays.Add(FromTime(t))
	}

	if len(holidays) == 0 {
		return nil, fmt.Errorf("holidays calendar has no dates for %d", year)
	}

	s.logger.Info("Holidays fetched from GitHub",
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}
