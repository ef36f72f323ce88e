package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
	"github.com/gmorel-dev/pokedex/internal/logger"
)

// Rejection messages. All decode failures map to 401 for callers, but the
// kinds stay distinguishable for logging and tests.
const (
	MsgMalformed        = "Malformed token"
	MsgExpired          = "Token expired"
	MsgInvalidSignature = "Invalid token signature"
	MsgInvalid          = "Invalid access token"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (domain.Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["role"] = user.Role
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (domain.Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return domain.Claims{}, rejection(err)
	}
	if !token.Valid {
		return domain.Claims{}, &internal_errors.ErrorWithStatusCode{Message: MsgInvalid, StatusCode: http.StatusUnauthorized}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Claims{}, &internal_errors.ErrorWithStatusCode{Message: MsgInvalid, StatusCode: http.StatusUnauthorized}
	}

	uid, ok := mapClaims["uid"].(string)
	if !ok {
		return domain.Claims{}, &internal_errors.ErrorWithStatusCode{Message: MsgInvalid, StatusCode: http.StatusUnauthorized}
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return domain.Claims{}, &internal_errors.ErrorWithStatusCode{Message: MsgInvalid, StatusCode: http.StatusUnauthorized}
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return domain.Claims{}, &internal_errors.ErrorWithStatusCode{Message: MsgInvalid, StatusCode: http.StatusUnauthorized}
	}

	return domain.Claims{UserId: uid, Email: email, Role: role}, nil
}

// rejection maps jwt/v5 parse errors to a 401 with a kind-specific message.
func rejection(err error) error {
	logger.Log.Debug("token rejected", "error", err)

	var msg string
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		msg = MsgMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		msg = MsgExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		msg = MsgInvalidSignature
	default:
		msg = MsgInvalid
	}
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized}
}
