package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser inserts a new user record inside a transaction.
func (s *Storage) SaveUser(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveUser(tx, user)
	})
}

// UserByEmail fetches a user by email on the connection pool.
func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(selectUser+" WHERE email = $1", email))
}

// UserById fetches a user by identifier. Used by the auth middleware on
// every protected request, so it stays a single pool read.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(selectUser+" WHERE id = $1", id))
}

// AddFavorite appends pokemonId to the user's favorites unless already
// present. A single atomic statement, so concurrent adds for the same user
// cannot lose updates. Returns the resulting favorites list.
func (s *Storage) AddFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error) {
	var favorites pq.Int64Array
	err := s.db.QueryRow(`
        UPDATE users
        SET favorites = CASE
                WHEN favorites @> ARRAY[$2]::bigint[] THEN favorites
                ELSE array_append(favorites, $2)
            END,
            updated_at = now()
        WHERE id = $1
        RETURNING favorites`,
		id, pokemonId,
	).Scan(&favorites)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return favorites, nil
}

// RemoveFavorite filters pokemonId out of the user's favorites. Removing an
// absent id is a no-op. Returns the resulting favorites list.
func (s *Storage) RemoveFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error) {
	var favorites pq.Int64Array
	err := s.db.QueryRow(`
        UPDATE users
        SET favorites = array_remove(favorites, $2),
            updated_at = now()
        WHERE id = $1
        RETURNING favorites`,
		id, pokemonId,
	).Scan(&favorites)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return favorites, nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

const selectUser = `
    SELECT id, email, nom, password_hash, role, favorites,
           (created_at at time zone 'utc'), (updated_at at time zone 'utc')
    FROM users`

func (s *Storage) saveUser(q Querier, user domain.User) error {
	_, err := q.Exec(
		"INSERT INTO users(id, email, nom, password_hash, role, favorites) VALUES($1, $2, $3, $4, $5, $6)",
		user.Id, user.Email, user.Nom, user.PassHash, user.Role, pq.Array(user.Favorites),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "Email already used", StatusCode: http.StatusBadRequest}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	var favorites pq.Int64Array
	err := row.Scan(&user.Id, &user.Email, &user.Nom, &user.PassHash, &user.Role, &favorites, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.Favorites = favorites
	return user, nil
}
