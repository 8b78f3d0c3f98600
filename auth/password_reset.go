package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/cashtrackr/api/repository"
)

type ForgotPasswordMessage struct {
	Email string `json:"email"`
}

func (e ForgotPasswordMessage) Type() string { return "account.password_reset_request" }

// ForgotPasswordHandler issues a fresh single-use code and mails it. Issuing
// overwrites whatever code was stored before, so only the latest one is
// valid. The save and the dispatch share a transaction: an undeliverable
// email leaves the previous state untouched.
type ForgotPasswordHandler struct {
	Repo repository.Manager
	Mail MailDispatcher
}

func (h *ForgotPasswordHandler) Execute(ctx context.Context, event ForgotPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ForgotPasswordHandler) execute(ctx context.Context, event ForgotPasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	if !user.Confirmed {
		return ErrAccountNotConfirmed
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	user.Token = code

	err = h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.Repo.Users().UpdateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset code")
		}

		if err := h.Mail.Send(ctx, MailMessage{
			Kind:  MailPasswordReset,
			To:    user.Email,
			Name:  user.Name,
			Token: code,
		}); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to dispatch reset email")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset request failed")
	}

	return nil
}

type ValidateResetCodeMessage struct {
	Code string `json:"token"`
}

func (e ValidateResetCodeMessage) Type() string { return "account.password_reset_validate" }

// ValidateResetCodeHandler is the read-only existence check a client runs
// before showing the new-password form.
type ValidateResetCodeHandler struct {
	Repo repository.Manager
}

func (h *ValidateResetCodeHandler) Execute(ctx context.Context, event ValidateResetCodeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during reset code validation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ValidateResetCodeHandler) execute(ctx context.Context, event ValidateResetCodeMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if _, err := h.Repo.Users().GetByToken(ctx, event.Code); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCodeNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset code")
	}

	return nil
}

type ResetPasswordMessage struct {
	Code     string `json:"token"`
	Password string `json:"password"`
}

func (e ResetPasswordMessage) Type() string { return "account.password_reset_finalize" }

// ResetPasswordHandler stores the new credential and consumes the code.
type ResetPasswordHandler struct {
	Repo repository.Manager
}

func (h *ResetPasswordHandler) Execute(ctx context.Context, event ResetPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResetPasswordHandler) execute(ctx context.Context, event ResetPasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByToken(ctx, event.Code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCodeNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset code")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	user.Password = hash
	user.Token = ""

	if err := h.Repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
	}

	return nil
}
