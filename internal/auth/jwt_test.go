package auth_test

import (
	"testing"
	"time"

	"echoboard/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, 24*time.Hour)

	userID := "test-user-id"
	token, err := issuer.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedUserID, err := issuer.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedUserID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	_, err := issuer.ParseToken("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := auth.NewTokenIssuer("another-secret", time.Hour).GenerateToken("u1")

	_, err := auth.NewTokenIssuer(testSecret, time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	claims := jwt.MapClaims{
		"user_id": "test-user-id",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := issuer.ParseToken(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte(testSecret))

	_, err := issuer.ParseToken(tokenWithoutUserID)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret!"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("not-a-hash", "s3cret!"))
}
