package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/cashtrackr/api/repository"
)

type RegisterMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterMessage) Type() string { return "account.register" }

// RegisterHandler creates a pending-confirmation principal and dispatches the
// confirmation email. The create and the dispatch run in one transaction: if
// the email cannot be sent the registration rolls back, so no account is ever
// persisted without a deliverable confirmation code.
type RegisterHandler struct {
	Repo repository.Manager
	Mail MailDispatcher
}

func (h *RegisterHandler) Execute(ctx context.Context, event RegisterMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterHandler) execute(ctx context.Context, event RegisterMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := repository.NormalizeEmail(event.Email)

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.Repo.Users().GetByEmailTx(ctx, tx, email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		code, err := GenerateCode()
		if err != nil {
			return err
		}

		user := &repository.User{
			Name:     event.Name,
			Email:    email,
			Password: hash,
			Token:    code,
		}

		if user, err = h.Repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		if err := h.Mail.Send(ctx, MailMessage{
			Kind:  MailConfirmAccount,
			To:    user.Email,
			Name:  user.Name,
			Token: code,
		}); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to dispatch confirmation email")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	return nil
}
