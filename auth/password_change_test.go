package auth

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangePassword(t *testing.T) {
	repo := newFakeManager()
	seeded := repo.users.add(userFixture("pepe@example.com", "old-password", true))

	handler := &ChangePasswordHandler{Repo: repo}

	err := handler.Execute(context.Background(), ChangePasswordMessage{
		UserID:          seeded.ID,
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	user, ok := repo.users.get(seeded.ID)
	require.True(t, ok)
	assert.NoError(t, ComparePasswordAndHash("new-password", user.Password))
	assert.Error(t, ComparePasswordAndHash("old-password", user.Password))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeManager()
	seeded := repo.users.add(userFixture("pepe@example.com", "old-password", true))

	handler := &ChangePasswordHandler{Repo: repo}

	err := handler.Execute(context.Background(), ChangePasswordMessage{
		UserID:          seeded.ID,
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password",
	})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeInvalidCreds, richErr.TextCode)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	handler := &ChangePasswordHandler{Repo: newFakeManager()}

	err := handler.Execute(context.Background(), ChangePasswordMessage{
		UserID:          42,
		CurrentPassword: "whatever",
		NewPassword:     "new-password",
	})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeUnauthorized, richErr.TextCode)
}

func TestCheckPassword(t *testing.T) {
	repo := newFakeManager()
	seeded := repo.users.add(userFixture("pepe@example.com", "password123", true))

	handler := &CheckPasswordHandler{Repo: repo}

	require.NoError(t, handler.Execute(context.Background(), CheckPasswordMessage{
		UserID:   seeded.ID,
		Password: "password123",
	}))

	err := handler.Execute(context.Background(), CheckPasswordMessage{
		UserID:   seeded.ID,
		Password: "wrong",
	})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeInvalidCreds, richErr.TextCode)
}
