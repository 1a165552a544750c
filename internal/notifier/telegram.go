package notifier

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "studenthub/pkg/logx"
)

// TelegramConfig configures push delivery to a single chat.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// TelegramAdapter sends notifications to a Telegram chat. The hub only
// pushes; it never polls for updates.
type TelegramAdapter struct {
	bot  *tele.Bot
	chat *tele.Chat
	log  logx.Logger
}

func NewTelegram(cfg TelegramConfig, log logx.Logger) (*TelegramAdapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is required")
	}
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &TelegramAdapter{bot: b, chat: &tele.Chat{ID: cfg.ChatID}, log: log}, nil
}

func (a *TelegramAdapter) Name() string { return "telegram" }

func (a *TelegramAdapter) Send(ctx context.Context, m Message) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	text := m.Title
	if m.Body != "" {
		if text != "" {
			text += "\n"
		}
		text += m.Body
	}
	start := time.Now()
	_, err := a.bot.Send(a.chat, text, &tele.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		return err
	}
	a.log.Debug("telegram notification sent",
		logx.String("kind", m.Kind),
		logx.Duration("took", time.Since(start)))
	return nil
}
