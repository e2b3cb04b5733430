package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportscast/sportscast-api-go/internal/config"
	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/validation"
)

func newTestAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(users, validation.New(0, 0), &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func TestSignupCreatesAccountAndIssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	user, token, err := svc.Signup(context.Background(), "fan@example.com", "Sports Fan", "super-secret")
	require.NoError(t, err)

	assert.Equal(t, "fan@example.com", user.Email)
	assert.Equal(t, "Sports Fan", user.DisplayName)
	assert.Equal(t, models.RoleUser, user.Role)

	// The stored hash verifies the original password and is not the password itself.
	assert.NotEqual(t, "super-secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("super-secret")))

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestSignupValidatesInput(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, _, err := svc.Signup(context.Background(), "not-an-email", "", "short")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, _, err := svc.Signup(context.Background(), "fan@example.com", "First", "super-secret")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "fan@example.com", "Second", "other-secret")
	assert.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestLoginVerifiesCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	created, _, err := svc.Signup(context.Background(), "fan@example.com", "Sports Fan", "super-secret")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "fan@example.com", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, _, err := svc.Signup(context.Background(), "fan@example.com", "Sports Fan", "super-secret")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "fan@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, token, err := svc.Signup(context.Background(), "fan@example.com", "Sports Fan", "super-secret")
	require.NoError(t, err)

	_, err = svc.ParseToken(token + "x")
	assert.Error(t, err)

	other := NewAuthService(users, validation.New(0, 0), &config.AuthConfig{
		JWTSecret: "different-secret",
		TokenTTL:  time.Hour,
	})
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, validation.New(0, 0), &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  -time.Minute,
	})

	_, token, err := svc.Signup(context.Background(), "fan@example.com", "Sports Fan", "super-secret")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}
