package mailer

import (
	"context"
	"log/slog"

	"github.com/cashtrackr/api/auth"
)

var _ auth.MailDispatcher = (*LogCourier)(nil)

// LogCourier writes notifications to the log instead of delivering them.
// Useful for development; the single-use code shows up in the output, so
// never wire it in production.
type LogCourier struct {
	logger *slog.Logger
}

func NewLogCourier(logger *slog.Logger) *LogCourier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogCourier{logger: logger}
}

func (c *LogCourier) Send(_ context.Context, msg auth.MailMessage) error {
	c.logger.Info("mail notification",
		"kind", string(msg.Kind),
		"to", msg.To,
		"name", msg.Name,
		"token", msg.Token,
	)
	return nil
}
