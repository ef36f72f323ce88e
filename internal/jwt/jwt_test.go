package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
)

const testSecret = "test_secret"

var testUser = domain.User{
	Id:    "3f1f9c2e-6f1a-4f1e-9d20-0a5a1a7a1111",
	Email: "a@b.com",
	Role:  domain.RoleUser,
}

func TestNewTokenRoundTrip(t *testing.T) {
	service := New(testSecret, time.Hour)

	token, err := service.NewToken(testUser)
	require.NoError(t, err)

	claims, err := service.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.Id, claims.UserId)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, testUser.Role, claims.Role)
}

func TestDecodeTokenExpired(t *testing.T) {
	service := New(testSecret, -time.Minute)

	token, err := service.NewToken(testUser)
	require.NoError(t, err)

	_, err = service.DecodeToken(token)
	require.Error(t, err)
	assert.Equal(t, MsgExpired, err.Error())
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeTokenWrongSecret(t *testing.T) {
	token, err := New(testSecret, time.Hour).NewToken(testUser)
	require.NoError(t, err)

	_, err = New("another_secret", time.Hour).DecodeToken(token)
	require.Error(t, err)
	assert.Equal(t, MsgInvalidSignature, err.Error())
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeTokenMalformed(t *testing.T) {
	_, err := New(testSecret, time.Hour).DecodeToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, MsgMalformed, err.Error())
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid":   testUser.Id,
		"email": testUser.Email,
		"role":  testUser.Role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New(testSecret, time.Hour).DecodeToken(token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeTokenMissingClaims(t *testing.T) {
	// Token signed with the right secret but without the expected claim set
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = New(testSecret, time.Hour).DecodeToken(token)
	require.Error(t, err)
	assert.Equal(t, MsgInvalid, err.Error())
}
