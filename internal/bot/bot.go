package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/username/overwork-timesheet/internal/calendar"
)

const (
	greetText     = "Привет %s!\nВведи свой оклад ниже, чтобы получить готовый табель за %d год."
	retryText     = "Не получилось разобрать оклад. Введи целое неотрицательное число, например 60000."
	hintText      = "Табель уже готов. Отправь /start, чтобы сделать новый."
	captionText   = "Табель за %d год"
	yearErrText   = "Год %d не поддерживается: табели доступны начиная с %d года."
	failedText    = "Не удалось сформировать документ, попробуй позже."
	anonymousUser = "пользователь"

	buildTimeout = 2 * time.Minute
)

// Builder renders a timesheet workbook
type Builder interface {
	Build(ctx context.Context, year, salary int) ([]byte, error)
}

// Settings configure the Telegram connection
type Settings struct {
	Token       string
	WebhookURL  string // Webhook mode when set
	Port        int
	PollTimeout time.Duration
	Offline     bool // Skip the getMe call, for tests
}

// Document is a file to send back to the chat
type Document struct {
	FileName string
	Caption  string
	Data     []byte
}

// Reply is what the bot answers to one message
type Reply struct {
	Text     string
	Document *Document
}

// Bot is the Telegram front-end of the timesheet engine
type Bot struct {
	bot      *telebot.Bot
	builder  Builder
	sessions *Sessions
	year     func() int
	logger   *zap.Logger
}

// New creates a bot. year is asked on every build so a long-running bot follows the calendar.
func New(settings Settings, builder Builder, year func() int, logger *zap.Logger) (*Bot, error) {
	b := &Bot{
		builder:  builder,
		sessions: NewSessions(),
		year:     year,
		logger:   logger,
	}

	tb, err := telebot.NewBot(telebot.Settings{
		Token:   settings.Token,
		Poller:  poller(settings),
		Offline: settings.Offline,
		OnError: func(err error, c telebot.Context) {
			b.logger.Error("Telegram handler failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = tb

	tb.Handle(startCommand, b.onMessage)
	tb.Handle(telebot.OnText, b.onMessage)

	return b, nil
}

func poller(s Settings) telebot.Poller {
	if s.WebhookURL != "" {
		return &telebot.Webhook{
			Listen:   ":" + strconv.Itoa(s.Port),
			Endpoint: &telebot.WebhookEndpoint{PublicURL: s.WebhookURL},
		}
	}

	timeout := s.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &telebot.LongPoller{Timeout: timeout}
}

// Run serves updates until ctx is canceled
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Telegram bot started",
		zap.String("username", b.bot.Me.Username))

	go b.bot.Start()

	<-ctx.Done()
	b.bot.Stop()

	b.logger.Info("Telegram bot stopped")
	return nil
}

func (b *Bot) onMessage(c telebot.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	reply := b.Respond(context.Background(), chat.ID, senderName(c.Sender()), c.Text())

	if reply.Document != nil {
		doc := &telebot.Document{
			File:     telebot.FromReader(bytes.NewReader(reply.Document.Data)),
			FileName: reply.Document.FileName,
			Caption:  reply.Document.Caption,
		}
		return c.Send(doc)
	}
	return c.Send(reply.Text)
}

// Respond advances the chat's dialogue and computes the reply
func (b *Bot) Respond(ctx context.Context, chatID int64, sender, text string) Reply {
	t := b.sessions.Advance(chatID, text)

	b.logger.Debug("Dialogue step",
		zap.Int64("chat_id", chatID),
		zap.String("state", t.Next.String()))

	switch t.Action {
	case ActionGreet:
		return Reply{Text: fmt.Sprintf(greetText, sender, b.year())}
	case ActionRetry:
		return Reply{Text: retryText}
	case ActionHint:
		return Reply{Text: hintText}
	}

	year := b.year()
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	data, err := b.builder.Build(ctx, year, t.Salary)
	if err != nil {
		b.logger.Error("Failed to build timesheet",
			zap.Int64("chat_id", chatID),
			zap.Int("year", year),
			zap.Error(err))
		// let the user try again with the same dialogue
		b.sessions.Set(chatID, AwaitingSalary)

		if errors.Is(err, calendar.ErrUnsupportedYear) {
			return Reply{Text: fmt.Sprintf(yearErrText, year, calendar.MinSupportedYear)}
		}
		return Reply{Text: failedText}
	}

	b.logger.Info("Timesheet ready",
		zap.Int64("chat_id", chatID),
		zap.Int("year", year),
		zap.Int("bytes", len(data)))

	return Reply{Document: &Document{
		FileName: fmt.Sprintf("timesheet_%d.xlsx", year),
		Caption:  fmt.Sprintf(captionText, year),
		Data:     data,
	}}
}

func senderName(u *telebot.User) string {
	if u == nil {
		return anonymousUser
	}
	if u.Username != "" {
		return u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}
