package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/repository"
)

type ChangePasswordMessage struct {
	UserID          int64  `json:"-"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"password"`
}

func (e ChangePasswordMessage) Type() string { return "account.password_change" }

// ChangePasswordHandler is the authenticated password rotation: the caller
// proves the current credential before the new one is stored.
type ChangePasswordHandler struct {
	Repo repository.Manager
}

func (h *ChangePasswordHandler) Execute(ctx context.Context, event ChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ChangePasswordHandler) execute(ctx context.Context, event ChangePasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByID(ctx, event.UserID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUnauthorized
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password change")
	}

	if err := ComparePasswordAndHash(event.CurrentPassword, user.Password); err != nil {
		return err
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	user.Password = hash

	if err := h.Repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
	}

	return nil
}

type CheckPasswordMessage struct {
	UserID   int64  `json:"-"`
	Password string `json:"password"`
}

func (e CheckPasswordMessage) Type() string { return "account.password_check" }

// CheckPasswordHandler re-verifies the current credential; clients call it
// before destructive operations.
type CheckPasswordHandler struct {
	Repo repository.Manager
}

func (h *CheckPasswordHandler) Execute(ctx context.Context, event CheckPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password check",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CheckPasswordHandler) execute(ctx context.Context, event CheckPasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByID(ctx, event.UserID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUnauthorized
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password check")
	}

	return ComparePasswordAndHash(event.Password, user.Password)
}
