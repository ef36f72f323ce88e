package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
	jwt_internal "github.com/gmorel-dev/pokedex/internal/jwt"
	"github.com/gmorel-dev/pokedex/internal/logger"
	"github.com/gmorel-dev/pokedex/internal/utils"
)

// UserStore resolves token claims to the live identity record. Resolving on
// every request (instead of trusting claims) lets role and favorites changes
// take effect before token expiry and rejects tokens of deleted users.
type UserStore interface {
	UserById(id domain.UserId) (domain.User, error)
}

// Key to store the resolved user in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
	users      UserStore
}

func NewAuth(jwtService jwt_internal.JwtService, users UserStore) *Auth {
	return &Auth{
		jwtService: jwtService,
		users:      users,
	}
}

// RequireAuth returns middleware that requires a valid bearer token
// resolving to an existing user.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// RequireAdmin returns middleware that additionally requires the admin role.
func (a *Auth) RequireAdmin() func(http.Handler) http.Handler {
	return a.auth(true)
}

// Sentinel errors for extractUser
var (
	errNoToken      = errorString("no token")
	errUserNotFound = errorString("user not found")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// extractUser validates the bearer token and resolves it to a full user record.
// Returns (user, nil) on success, (nil, error) on failure.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	// The header must match `Bearer <token>` exactly: case-sensitive prefix,
	// single space. Anything else is rejected before touching the verifier.
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tokenString == "" || strings.HasPrefix(tokenString, " ") {
		return nil, errNoToken
	}

	claims, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.users.UserById(claims.UserId)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// auth is the internal method that implements the authentication logic
func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch {
				case err == errNoToken:
					utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "missing or malformed token"})
				case err == errUserNotFound:
					utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "user not found"})
				case internal_errors.StatusCode(err) == http.StatusUnauthorized:
					// Token decode failure; keep the kind as debugging detail
					utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "invalid token", Detail: err.Error()})
				default:
					logger.Log.Error("identity lookup failed", "error", err)
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && !user.IsAdmin() {
				utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse{Message: "Access denied. Only for admin"})
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the resolved user from the request context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
