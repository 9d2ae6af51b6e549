package notify

import (
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier reports trading activity to a human. Delivery is best effort.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Telegram: пассивный нотифайер в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: %w", err)
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		log:    log,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("telegram send failed", zap.Error(err))
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Log: заглушка, всё пишет в лог.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log { return &Log{log: log.Named("notify")} }

func (l *Log) Send(msg string) { l.log.Info(msg) }

func (l *Log) Sendf(format string, args ...any) { l.Send(fmt.Sprintf(format, args...)) }

// New picks Telegram when a token and chat are set, otherwise the log.
func New(token string, chatID int64, log *zap.Logger) Notifier {
	if token == "" || chatID == 0 {
		return NewLog(log)
	}
	t, err := NewTelegram(token, chatID, log)
	if err != nil {
		log.Warn("telegram unavailable, notifications go to the log", zap.Error(err))
		return NewLog(log)
	}
	return t
}
