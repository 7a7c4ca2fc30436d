package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/username/overwork-timesheet/internal/calendar"
)

// Holiday source types
const (
	SourceGitHub   = "github"
	SourceIsDayOff = "isdayoff"
	SourceFile     = "file"
)

// Config represents application configuration
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Holidays  HolidaysConfig  `mapstructure:"holidays"`
	Timesheet TimesheetConfig `mapstructure:"timesheet"`
	Log       LogConfig       `mapstructure:"log"`
}

// BotConfig represents Telegram bot configuration
type BotConfig struct {
	Token       string `mapstructure:"token"`
	WebhookURL  string `mapstructure:"webhook_url"` // Webhook mode when set, long polling otherwise
	Port        int    `mapstructure:"port"`        // Webhook listen port
	PollTimeout string `mapstructure:"poll_timeout"`
}

// HolidaysConfig represents holiday source configuration
type HolidaysConfig struct {
	Source       string `mapstructure:"source"` // "github", "isdayoff" or "file"
	URL          string `mapstructure:"url"`
	File         string `mapstructure:"file"`
	FallbackFile string `mapstructure:"fallback_file"` // Used when the network source fails
	Timeout      string `mapstructure:"timeout"`
}

// TimesheetConfig represents workbook rendering options
type TimesheetConfig struct {
	Year           int           `mapstructure:"year"` // 0 means the current year
	CurrencySuffix string        `mapstructure:"currency_suffix"`
	AppInfo        string        `mapstructure:"app_info"`
	Palette        PaletteConfig `mapstructure:"palette"`
}

// PaletteConfig holds the month banner colors (RRGGBB)
type PaletteConfig struct {
	Winter string `mapstructure:"winter"`
	Spring string `mapstructure:"spring"`
	Summer string `mapstructure:"summer"`
	Autumn string `mapstructure:"autumn"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.port", 8443)
	v.SetDefault("bot.poll_timeout", "10s")
	v.SetDefault("holidays.source", SourceGitHub)
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("timesheet.currency_suffix", " ₽")
	v.SetDefault("timesheet.app_info", "Overwork timesheet")
	v.SetDefault("timesheet.palette.winter", "C6E8F4")
	v.SetDefault("timesheet.palette.spring", "B2E19E")
	v.SetDefault("timesheet.palette.summer", "FFE699")
	v.SetDefault("timesheet.palette.autumn", "F0C1A7")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from .env, the config file and the environment.
// The config file is optional unless configPath is given explicitly.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.overwork-timesheet")
		v.AddConfigPath("/etc/overwork-timesheet")
	}

	// Read environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"bot.token":       "BOT_TOKEN",
		"bot.webhook_url": "WEBHOOK_URL",
		"bot.port":        "PORT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Holidays.Source {
	case SourceGitHub, SourceIsDayOff:
		if c.Holidays.URL != "" {
			u, err := url.Parse(c.Holidays.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("holidays.url must be an absolute URL, got '%s'", c.Holidays.URL)
			}
		}
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'github', 'isdayoff' or 'file', got '%s'", c.Holidays.Source)
	}
	if _, err := parseDuration(c.Holidays.Timeout); err != nil {
		return fmt.Errorf("holidays.timeout: %w", err)
	}

	if c.Timesheet.Year != 0 && c.Timesheet.Year < calendar.MinSupportedYear {
		return fmt.Errorf("timesheet.year must be %d or later", calendar.MinSupportedYear)
	}
	for name, color := range map[string]string{
		"winter": c.Timesheet.Palette.Winter,
		"spring": c.Timesheet.Palette.Spring,
		"summer": c.Timesheet.Palette.Summer,
		"autumn": c.Timesheet.Palette.Autumn,
	} {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("timesheet.palette.%s must be an RRGGBB color, got '%s'", name, color)
		}
	}

	if c.Bot.Port < 0 || c.Bot.Port > 65535 {
		return fmt.Errorf("bot.port must be between 0 and 65535")
	}
	if _, err := parseDuration(c.Bot.PollTimeout); err != nil {
		return fmt.Errorf("bot.poll_timeout: %w", err)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// ValidateBot checks the settings only the bot command needs
func (c *Config) ValidateBot() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required (or set BOT_TOKEN)")
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// GetTimeout returns the holiday fetch timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	d, err := parseDuration(c.Timeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetURL returns the configured URL or the default endpoint of the source.
// Empty means the source picks its own default.
func (c *HolidaysConfig) GetURL() string {
	if c.URL == "" && c.Source == SourceGitHub {
		return calendar.DefaultGitHubURL
	}
	return c.URL
}

// GetPollTimeout returns the long polling timeout
func (c *BotConfig) GetPollTimeout() time.Duration {
	d, err := parseDuration(c.PollTimeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetYear returns the configured year or the year of now
func (c *TimesheetConfig) GetYear(now time.Time) int {
	if c.Year != 0 {
		return c.Year
	}
	return now.Year()
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Bot.Token = os.ExpandEnv(c.Bot.Token)
	c.Bot.WebhookURL = os.ExpandEnv(c.Bot.WebhookURL)
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
}
