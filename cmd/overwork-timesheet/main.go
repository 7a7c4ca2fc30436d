package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/overwork-timesheet/internal/bot"
	"github.com/username/overwork-timesheet/internal/calendar"
	"github.com/username/overwork-timesheet/internal/config"
	"github.com/username/overwork-timesheet/internal/daemon"
	"github.com/username/overwork-timesheet/internal/timesheet"
	"github.com/username/overwork-timesheet/internal/xlsx"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "overwork-timesheet",
		Short: "Overwork timesheet generator",
		Long:  "Builds a yearly xlsx timesheet with per-day overtime formulas from the Russian production calendar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info") // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info") // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml when present)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(botCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var year, salary int
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the timesheet workbook of a year to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if year == 0 {
				year = cfg.Timesheet.GetYear(time.Now())
			}
			if out == "" {
				out = fmt.Sprintf("timesheet_%d.xlsx", year)
			}

			engine, err := initializeEngine(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			data, err := engine.Build(ctx, year, salary)
			if err != nil {
				return fmt.Errorf("failed to build timesheet: %w", err)
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output dir: %w", err)
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Timesheet for %d written to %s (%d bytes)\n", year, out, len(data))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: timesheet.year or the current year)")
	cmd.Flags().IntVarP(&salary, "salary", "s", 0, "Monthly salary, 0 leaves the salary cell empty")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: timesheet_<year>.xlsx)")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print the holidays and day categories of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if year == 0 {
				year = cfg.Timesheet.GetYear(time.Now())
			}
			if err := calendar.CheckYear(year); err != nil {
				return err
			}

			source, err := newHolidaySource(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			holidays, err := source.FetchHolidays(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to fetch holidays: %w", err)
			}
			holidays = holidays.ForYear(year)

			days, err := calendar.BuildYear(year, holidays)
			if err != nil {
				return err
			}

			printYearSummary(cmd, year, holidays, calendar.SplitMonths(days))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: timesheet.year or the current year)")

	return cmd
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ValidateBot(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			engine, err := initializeEngine(cfg)
			if err != nil {
				return err
			}

			tgBot, err := bot.New(bot.Settings{
				Token:       cfg.Bot.Token,
				WebhookURL:  cfg.Bot.WebhookURL,
				Port:        cfg.Bot.Port,
				PollTimeout: cfg.Bot.GetPollTimeout(),
			}, engine, func() int {
				return cfg.Timesheet.GetYear(time.Now())
			}, logger)
			if err != nil {
				return err
			}

			mode := "long polling"
			if cfg.Bot.WebhookURL != "" {
				mode = "webhook"
			}
			logger.Info("Starting bot",
				zap.String("mode", mode),
				zap.String("holidays_source", cfg.Holidays.Source))

			return daemon.NewDaemon(tgBot, logger).Start()
		},
	}
}

func initializeEngine(cfg *config.Config) (*timesheet.Engine, error) {
	source, err := newHolidaySource(cfg)
	if err != nil {
		return nil, err
	}

	palette := timesheet.DefaultPalette()
	palette.Seasons[calendar.Winter] = cfg.Timesheet.Palette.Winter
	palette.Seasons[calendar.Spring] = cfg.Timesheet.Palette.Spring
	palette.Seasons[calendar.Summer] = cfg.Timesheet.Palette.Summer
	palette.Seasons[calendar.Autumn] = cfg.Timesheet.Palette.Autumn

	suffix := cfg.Timesheet.CurrencySuffix
	engine, err := timesheet.NewEngine(source, xlsx.Factory(logger), timesheet.Options{
		Palette:        &palette,
		CurrencySuffix: &suffix,
		AppInfo:        cfg.Timesheet.AppInfo,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

// newHolidaySource builds the configured source, backed by the fallback file when set
func newHolidaySource(cfg *config.Config) (calendar.HolidaySource, error) {
	var source calendar.HolidaySource

	switch cfg.Holidays.Source {
	case config.SourceGitHub:
		logger.Info("Using GitHub holidays calendar", zap.String("url", cfg.Holidays.GetURL()))
		source = calendar.NewGitHubSource(cfg.Holidays.GetURL(), cfg.Holidays.GetTimeout(), logger)

	case config.SourceIsDayOff:
		logger.Info("Using isdayoff.ru calendar API", zap.String("url", cfg.Holidays.GetURL()))
		source = calendar.NewIsDayOffSource(cfg.Holidays.GetURL(), cfg.Holidays.GetTimeout(), logger)

	case config.SourceFile:
		logger.Info("Using local holidays file", zap.String("file", cfg.Holidays.File))
		source = calendar.NewFileSource(cfg.Holidays.File, logger)

	default:
		return nil, fmt.Errorf("unknown holidays source: %s", cfg.Holidays.Source)
	}

	if cfg.Holidays.FallbackFile != "" && cfg.Holidays.Source != config.SourceFile {
		source = calendar.NewFallbackSource(source, calendar.NewFileSource(cfg.Holidays.FallbackFile, logger), logger)
	}

	return source, nil
}

func printYearSummary(cmd *cobra.Command, year int, holidays calendar.HolidaySet, months []calendar.MonthGroup) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n📅 Production calendar %d (%d holidays)\n", year, len(holidays))
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Month              | Usual | Earn | Weekend | Baseline")
	fmt.Fprintln(w, "---------------------+-------+------+---------+---------")

	for _, m := range months {
		var usual, earn, weekend int
		for _, d := range m.Days {
			switch d.Category {
			case calendar.Usual:
				usual++
			case calendar.EarnDay:
				earn++
			case calendar.Weekend:
				weekend++
			}
		}
		fmt.Fprintf(w, "  %-18s | %5d | %4d | %7d | %6dh\n",
			m.Name(), usual, earn, weekend, usual*timesheet.BaselineHoursPerDay)
	}

	var dates []calendar.Date
	for _, m := range months {
		for _, d := range m.Days {
			if holidays.Contains(d.Date) {
				dates = append(dates, d.Date)
			}
		}
	}

	fmt.Fprintln(w, "\n🎉 Holidays:")
	for _, d := range dates {
		fmt.Fprintf(w, "  %s %s\n", d, calendar.WeekdayShort(d.Weekday))
	}
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
