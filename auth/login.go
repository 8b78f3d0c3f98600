package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/repository"
)

type LoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginMessage) Type() string { return "account.login" }

// LoginHandler authenticates a confirmed principal and issues a session
// token. An unconfirmed account is rejected before the password is checked,
// so the caller learns nothing about credential correctness until the
// account is usable.
type LoginHandler struct {
	Repo   repository.Manager
	Tokens *TokenService
}

func (h *LoginHandler) Execute(ctx context.Context, event LoginMessage) (string, error) {
	select {
	case <-ctx.Done():
		return "", goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginHandler) execute(ctx context.Context, event LoginMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.Repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if !user.Confirmed {
		return "", ErrAccountNotConfirmed
	}

	if err := ComparePasswordAndHash(event.Password, user.Password); err != nil {
		return "", err
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		return "", err
	}

	return token, nil
}
