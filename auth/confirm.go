package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/repository"
)

type ConfirmAccountMessage struct {
	Code string `json:"token"`
}

func (e ConfirmAccountMessage) Type() string { return "account.confirm" }

// ConfirmAccountHandler flips a pending account to confirmed and consumes the
// single-use code. Confirming twice with the same code fails: the first
// confirmation clears the token slot, so the replay matches no account.
type ConfirmAccountHandler struct {
	Repo repository.Manager
}

func (h *ConfirmAccountHandler) Execute(ctx context.Context, event ConfirmAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account confirmation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmAccountHandler) execute(ctx context.Context, event ConfirmAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByToken(ctx, event.Code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrInvalidCode
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up confirmation code")
	}

	user.Confirmed = true
	user.Token = ""

	if err := h.Repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm account")
	}

	return nil
}
