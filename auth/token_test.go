package auth

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
}

func TestSessionTokenRoundtrip(t *testing.T) {
	ts := NewTokenService(newTestConfig(), nil)

	token, err := ts.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NotEmpty(t, claims.ID, "token should carry a unique id")
}

func TestSessionTokenExpired(t *testing.T) {
	cfg := newTestConfig()
	cfg.expiration = -1
	ts := NewTokenService(cfg, nil)

	token, err := ts.Generate(42)
	require.NoError(t, err)

	_, err = ts.Validate(token)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeTokenExpired, richErr.TextCode)
}

func TestSessionTokenMalformed(t *testing.T) {
	ts := NewTokenService(newTestConfig(), nil)

	_, err := ts.Validate("not.a.token")

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeTokenMalformed, richErr.TextCode)
}

func TestSessionTokenWrongKey(t *testing.T) {
	ts := NewTokenService(newTestConfig(), nil)

	other := NewTokenService(testConfig{
		signingKey: "a-different-signing-key",
		expiration: 1,
		issuer:     "cashtrackr-test",
	}, nil)

	token, err := other.Generate(42)
	require.NoError(t, err)

	_, err = ts.Validate(token)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, TextCodeTokenMalformed, richErr.TextCode)
}

func TestSessionTokenWrongIssuer(t *testing.T) {
	cfg := newTestConfig()
	ts := NewTokenService(cfg, nil)

	cfg.issuer = "somebody-else"
	other := NewTokenService(cfg, nil)

	token, err := other.Generate(42)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
}

func TestSessionClaimsBadSubject(t *testing.T) {
	claims := &SessionClaims{}
	claims.Subject = "not-a-number"

	_, err := claims.UserID()
	require.Error(t, err)

	claims.Subject = "-3"
	_, err = claims.UserID()
	require.Error(t, err)
}
