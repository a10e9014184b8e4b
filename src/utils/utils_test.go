package utils

import (
	"context"
	"testing"
	"time"

	"Backend-SurveyHub/src/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64b000000000000000000001", "a@b.co", models.RoleAdmin)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64b000000000000000000001", claims.UserID)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.InDelta(t, TokenTTL.Seconds(), claims.RemainingTTL().Seconds(), 5)
}

func TestParseJWTRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ParseJWT("")
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token")
	assert.Error(t, err)

	// signed with another secret
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{UserID: "x"})
	signed, err := other.SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = ParseJWT(signed)
	assert.Error(t, err)

	// expired
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err = expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseJWT(signed)
	assert.Error(t, err)
}

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(8)
	b := GenerateRandomString(8)
	assert.Len(t, a, 8)
	assert.Len(t, GenerateRandomString(7), 7)
	assert.NotEqual(t, a, b)
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(models.RegisterRequest{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	err = ValidateStruct(models.RegisterRequest{Name: "A", Email: "nope", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", err.Error())

	assert.NoError(t, ValidateStruct(models.RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1"}))
}

func TestParseObjectID(t *testing.T) {
	_, err := ParseObjectID("surveyId", "zzz")
	assert.EqualError(t, err, "invalid surveyId")

	oid, err := ParseObjectID("surveyId", " 64b000000000000000000001 ")
	require.NoError(t, err)
	assert.Equal(t, "64b000000000000000000001", oid.Hex())
}

func TestRedisHelpersWithoutClient(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, "tok", time.Minute))
	listed, err := IsTokenBlacklisted(ctx, "tok")
	assert.NoError(t, err)
	assert.False(t, listed)

	assert.ErrorIs(t, StoreResetCode(ctx, "u1", "123456"), ErrResetUnavailable)
	_, err = ConsumeResetCode(ctx, "u1", "123456")
	assert.ErrorIs(t, err, ErrResetUnavailable)
}
