package service

import (
	"github.com/gmorel-dev/pokedex/internal/domain"
)

type FavoritesService interface {
	Add(user *domain.User, pokemonId domain.PokemonId) ([]int64, error)
	Remove(user *domain.User, pokemonId domain.PokemonId) ([]int64, error)
	Get(user *domain.User) ([]domain.Pokemon, error)
}

type FavoritesStorage interface {
	AddFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error)
	RemoveFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error)
	Pokemon(id domain.PokemonId) (domain.Pokemon, error)
	PokemonsByIds(ids []domain.PokemonId) ([]domain.Pokemon, error)
}

type Favorites struct {
	storage FavoritesStorage
}

func NewFavorites(storage FavoritesStorage) *Favorites {
	return &Favorites{storage: storage}
}

// Add appends pokemonId to the user's favorites. Idempotent: adding an id
// that is already present leaves the list unchanged. The referenced pokemon
// must exist, so favorites cannot dangle at write time.
func (f *Favorites) Add(user *domain.User, pokemonId domain.PokemonId) ([]int64, error) {
	if _, err := f.storage.Pokemon(pokemonId); err != nil {
		return nil, err
	}
	return f.storage.AddFavorite(user.Id, pokemonId)
}

// Remove filters pokemonId out of the user's favorites. Removing an absent
// id is a no-op, not an error.
func (f *Favorites) Remove(user *domain.User, pokemonId domain.PokemonId) ([]int64, error) {
	return f.storage.RemoveFavorite(user.Id, pokemonId)
}

// Get expands the user's favorite references to full pokemon records,
// keeping the favorites order.
func (f *Favorites) Get(user *domain.User) ([]domain.Pokemon, error) {
	return f.storage.PokemonsByIds(user.Favorites)
}
