package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/cashtrackr/api/auth"
)

var _ auth.MailDispatcher = (*SMTPCourier)(nil)

// SMTPCourier delivers notifications through an SMTP relay.
type SMTPCourier struct {
	client      *mail.Client
	from        string
	frontendURL string
}

// NewSMTPCourier dials nothing yet; the connection happens per send.
func NewSMTPCourier(cfg Config) (*SMTPCourier, error) {
	client, err := mail.NewClient(
		cfg.GetSMTPHost(),
		mail.WithPort(cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.GetSMTPUsername()),
		mail.WithPassword(cfg.GetSMTPPassword()),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}

	return &SMTPCourier{
		client:      client,
		from:        cfg.GetEmailFrom(),
		frontendURL: cfg.GetFrontendURL(),
	}, nil
}

func (c *SMTPCourier) Send(ctx context.Context, msg auth.MailMessage) error {
	rendered, err := renderMessage(c.frontendURL, msg)
	if err != nil {
		return err
	}

	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(rendered.subject)
	m.SetBodyString(mail.TypeTextPlain, rendered.body)

	if err := c.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Kind, err)
	}

	return nil
}
