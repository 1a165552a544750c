package notifier

import (
	"context"

	logx "studenthub/pkg/logx"
)

// ConsoleAdapter writes notifications through the structured logger. It is
// the default delivery backend when no Telegram chat is configured.
type ConsoleAdapter struct {
	log logx.Logger
}

func NewConsole(log logx.Logger) *ConsoleAdapter {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &ConsoleAdapter{log: log}
}

func (a *ConsoleAdapter) Name() string { return "console" }

func (a *ConsoleAdapter) Send(_ context.Context, m Message) error {
	a.log.Info("notification",
		logx.String("kind", m.Kind),
		logx.String("title", m.Title),
		logx.String("body", m.Body))
	return nil
}
