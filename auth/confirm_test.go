package auth

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashtrackr/api/repository"
)

func TestConfirmAccount(t *testing.T) {
	repo := newFakeManager()
	pending := userFixture("pepe@example.com", "password123", false)
	pending.Token = "12345678"
	seeded := repo.users.add(pending)

	handler := &ConfirmAccountHandler{Repo: repo}

	err := handler.Execute(context.Background(), ConfirmAccountMessage{Code: "12345678"})
	require.NoError(t, err)

	user, ok := repo.users.get(seeded.ID)
	require.True(t, ok)
	assert.True(t, user.Confirmed)
	assert.Empty(t, user.Token, "single-use code should be consumed")
}

func TestConfirmAccountReplayFails(t *testing.T) {
	repo := newFakeManager()
	pending := userFixture("pepe@example.com", "password123", false)
	pending.Token = "12345678"
	repo.users.add(pending)

	handler := &ConfirmAccountHandler{Repo: repo}

	require.NoError(t, handler.Execute(context.Background(), ConfirmAccountMessage{Code: "12345678"}))

	err := handler.Execute(context.Background(), ConfirmAccountMessage{Code: "12345678"})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeInvalidCode, richErr.TextCode)
}

func TestConfirmAccountUnknownCode(t *testing.T) {
	repo := newFakeManager()
	repo.users.add(repository.User{Name: "Pepe", Email: "pepe@example.com", Password: "x", Token: "87654321"})

	handler := &ConfirmAccountHandler{Repo: repo}

	err := handler.Execute(context.Background(), ConfirmAccountMessage{Code: "00000000"})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeInvalidCode, richErr.TextCode)
	assert.Equal(t, goerrors.CategoryAuth, richErr.Category)
}
