package auth

import (
	"context"
	"fmt"
)

// Logger interface consumed by the auth components.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
}

// MailKind selects which lifecycle notification gets dispatched.
type MailKind string

const (
	MailConfirmAccount MailKind = "confirm-account"
	MailPasswordReset  MailKind = "password-reset"
)

// MailMessage carries everything a courier needs to render and send a
// lifecycle notification. The token is the single-use code, never a session
// token.
type MailMessage struct {
	To    string
	Name  string
	Token string
	Kind  MailKind
}

// MailDispatcher is the outbound mail collaborator. Send is awaited; a failed
// dispatch aborts the enclosing lifecycle transition.
type MailDispatcher interface {
	Send(ctx context.Context, msg MailMessage) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
