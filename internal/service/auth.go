package service

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmorel-dev/pokedex/internal/domain"
	"github.com/gmorel-dev/pokedex/internal/errors"
	"github.com/gmorel-dev/pokedex/internal/logger"
)

type AuthService interface {
	Register(creds domain.Credentials) (domain.User, string, error)
	Login(creds domain.Credentials) (domain.User, string, error)
}

type UserStorage interface {
	SaveUser(user domain.User) error
	UserByEmail(email string) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage UserStorage
	jwt     Jwt
}

func NewAuth(storage UserStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

// Register creates a new identity record and returns it with a fresh token.
// The password is hashed exactly here, never downstream: stored values are
// always hashes.
func (a *Auth) Register(creds domain.Credentials) (domain.User, string, error) {
	email := strings.ToLower(creds.Email)

	if err := checkEmail(email); err != nil {
		return domain.User{}, "", err
	}

	_, err := a.storage.UserByEmail(email)
	if err == nil {
		return domain.User{}, "", &errors.ErrorWithStatusCode{Message: "Email already used", StatusCode: http.StatusBadRequest}
	}
	if !errors.IsNotFound(err) {
		return domain.User{}, "", err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, "", err
	}

	user := domain.User{
		Id:        uuid.NewString(),
		Email:     email,
		Nom:       creds.Nom,
		PassHash:  string(passHash),
		Role:      domain.RoleUser,
		Favorites: []int64{},
	}
	if err := a.storage.SaveUser(user); err != nil {
		return domain.User{}, "", err
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return domain.User{}, "", err
	}

	return user, token, nil
}

// Login checks if a user with the given credentials exists and returns it
// with an access token.
func (a *Auth) Login(creds domain.Credentials) (domain.User, string, error) {
	email := strings.ToLower(creds.Email)

	if err := checkEmail(email); err != nil {
		return domain.User{}, "", err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return domain.User{}, "", &errors.ErrorWithStatusCode{Message: "Wrong password", StatusCode: http.StatusBadRequest}
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return domain.User{}, "", err
	}

	return user, token, nil
}

func checkEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Invalid email address", StatusCode: http.StatusBadRequest}
	}
	return nil
}
