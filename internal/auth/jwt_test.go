package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/config"
	"github.com/signgroup/workshop-api/internal/domain"
)

func newTokenManager(t *testing.T, secret, issuer string) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: secret,
		TokenTTL:  1,
		Issuer:    issuer,
	})
	require.NoError(t, err)
	return tokens
}

func testUser() *domain.User {
	user := &domain.User{
		Name:  "Kari",
		Email: "kari@signgroup.test",
		Role:  domain.RoleSales,
	}
	user.ID = uuid.New()
	return user
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenManager(&config.AuthConfig{TokenTTL: 1, Issuer: "x"})
	assert.Error(t, err)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := newTokenManager(t, "test-secret", "workshop-api-test")
	user := testUser()

	now := time.Now().UTC()
	signed, expiresAt, err := tokens.Issue(user, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour).Unix(), expiresAt.Unix())

	userID, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tokens := newTokenManager(t, "test-secret", "workshop-api-test")

	signed, _, err := tokens.Issue(testUser(), time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuing := newTokenManager(t, "one-secret", "workshop-api-test")
	validating := newTokenManager(t, "another-secret", "workshop-api-test")

	signed, _, err := issuing.Issue(testUser(), time.Now().UTC())
	require.NoError(t, err)

	_, err = validating.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	issuing := newTokenManager(t, "test-secret", "some-other-service")
	validating := newTokenManager(t, "test-secret", "workshop-api-test")

	signed, _, err := issuing.Issue(testUser(), time.Now().UTC())
	require.NoError(t, err)

	_, err = validating.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	tokens := newTokenManager(t, "test-secret", "workshop-api-test")

	_, err := tokens.Validate("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
