// Package mailer provides couriers for the lifecycle notifications the auth
// package dispatches: an SMTP courier for deployments and a log courier for
// development and tests.
package mailer

import (
	"fmt"

	"github.com/cashtrackr/api/auth"
)

// Config holds the SMTP transport options.
type Config interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFrom() string
	GetFrontendURL() string
}

type content struct {
	subject string
	body    string
}

// renderMessage produces the plain-text notification for a mail kind. Bodies
// are intentionally text only; rich templating lives outside this service.
func renderMessage(frontendURL string, msg auth.MailMessage) (content, error) {
	switch msg.Kind {
	case auth.MailConfirmAccount:
		return content{
			subject: "CashTrackr - Confirm your account",
			body: fmt.Sprintf(
				"Hi %s,\n\n"+
					"Your CashTrackr account is almost ready. Visit %s/auth/confirm-account\n"+
					"and enter the following code to confirm it:\n\n"+
					"    %s\n\n"+
					"If you did not request this account you can ignore this message.\n",
				msg.Name, frontendURL, msg.Token,
			),
		}, nil
	case auth.MailPasswordReset:
		return content{
			subject: "CashTrackr - Reset your password",
			body: fmt.Sprintf(
				"Hi %s,\n\n"+
					"You requested a password reset for your CashTrackr account.\n"+
					"Visit %s/auth/new-password and enter the following code:\n\n"+
					"    %s\n\n"+
					"If you did not request a reset you can ignore this message.\n",
				msg.Name, frontendURL, msg.Token,
			),
		}, nil
	default:
		return content{}, fmt.Errorf("unknown mail kind: %q", msg.Kind)
	}
}
