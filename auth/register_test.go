package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^\d{8}$`)

func TestRegisterCreatesPendingAccount(t *testing.T) {
	repo := newFakeManager()
	courier := &captureCourier{}
	handler := &RegisterHandler{Repo: repo, Mail: courier}

	err := handler.Execute(context.Background(), RegisterMessage{
		Name:     "Pepe",
		Email:    "Pepe@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)

	require.Equal(t, 1, repo.users.count())

	user, ok := repo.users.get(1)
	require.True(t, ok)

	assert.Equal(t, "pepe@example.com", user.Email, "email should be stored normalized")
	assert.False(t, user.Confirmed)
	assert.Regexp(t, codePattern, user.Token)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, ComparePasswordAndHash("password123", user.Password))

	msg, ok := courier.last()
	require.True(t, ok, "confirmation email should have been dispatched")
	assert.Equal(t, MailConfirmAccount, msg.Kind)
	assert.Equal(t, "pepe@example.com", msg.To)
	assert.Equal(t, user.Token, msg.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeManager()
	repo.users.add(userFixture("pepe@example.com", "password123", true))

	handler := &RegisterHandler{Repo: repo, Mail: &captureCourier{}}

	err := handler.Execute(context.Background(), RegisterMessage{
		Name:     "Pepe Again",
		Email:    "PEPE@example.com",
		Password: "password123",
	})

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeEmailTaken, richErr.TextCode)
	assert.Equal(t, goerrors.CategoryConflict, richErr.Category)

	assert.Equal(t, 1, repo.users.count(), "no second record should exist")
}

func TestRegisterMailFailureRollsBack(t *testing.T) {
	repo := newFakeManager()
	courier := &captureCourier{fail: errors.New("relay unreachable")}
	handler := &RegisterHandler{Repo: repo, Mail: courier}

	err := handler.Execute(context.Background(), RegisterMessage{
		Name:     "Pepe",
		Email:    "pepe@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	assert.Equal(t, 0, repo.users.count(), "failed dispatch should leave no account behind")
}

func TestRegisterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := &RegisterHandler{Repo: newFakeManager(), Mail: &captureCourier{}}

	err := handler.Execute(ctx, RegisterMessage{
		Name:     "Pepe",
		Email:    "pepe@example.com",
		Password: "password123",
	})
	require.Error(t, err)
}
