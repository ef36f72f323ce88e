package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gmorel-dev/pokedex/internal/domain"
	"github.com/gmorel-dev/pokedex/internal/errors"
)

const defaultPerPage = 20

type PokemonService interface {
	List(filter domain.PokemonFilter) (PokemonPage, error)
	Get(id domain.PokemonId) (domain.Pokemon, error)
	Create(p domain.Pokemon) (domain.Pokemon, error)
	Update(p domain.Pokemon) (domain.Pokemon, error)
	Delete(id domain.PokemonId) (domain.Pokemon, error)
}

type PokemonStorage interface {
	SavePokemon(p domain.Pokemon) error
	Pokemon(id domain.PokemonId) (domain.Pokemon, error)
	UpdatePokemon(p domain.Pokemon) error
	DeletePokemon(id domain.PokemonId) (domain.Pokemon, error)
	Pokemons(filter domain.PokemonFilter) ([]domain.Pokemon, int, error)
	PokemonTypes() ([]string, error)
}

// PokemonPage is one page of the catalog listing.
type PokemonPage struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	Types      []string // distinct type tags across the whole collection
	Pokemons   []domain.Pokemon
}

type Pokemon struct {
	storage PokemonStorage
	perPage int
}

func NewPokemon(storage PokemonStorage, perPage int) *Pokemon {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Pokemon{storage: storage, perPage: perPage}
}

func (s *Pokemon) List(filter domain.PokemonFilter) (PokemonPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.perPage
	}
	for i, t := range filter.Types {
		filter.Types[i] = strings.ToLower(t)
	}

	pokemons, total, err := s.storage.Pokemons(filter)
	if err != nil {
		return PokemonPage{}, err
	}
	types, err := s.storage.PokemonTypes()
	if err != nil {
		return PokemonPage{}, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return PokemonPage{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
		Types:      types,
		Pokemons:   pokemons,
	}, nil
}

func (s *Pokemon) Get(id domain.PokemonId) (domain.Pokemon, error) {
	return s.storage.Pokemon(id)
}

func (s *Pokemon) Create(p domain.Pokemon) (domain.Pokemon, error) {
	if err := normalize(&p); err != nil {
		return domain.Pokemon{}, err
	}
	if err := s.storage.SavePokemon(p); err != nil {
		return domain.Pokemon{}, err
	}
	return s.storage.Pokemon(p.Id)
}

func (s *Pokemon) Update(p domain.Pokemon) (domain.Pokemon, error) {
	if err := normalize(&p); err != nil {
		return domain.Pokemon{}, err
	}
	if err := s.storage.UpdatePokemon(p); err != nil {
		return domain.Pokemon{}, err
	}
	return s.storage.Pokemon(p.Id)
}

func (s *Pokemon) Delete(id domain.PokemonId) (domain.Pokemon, error) {
	return s.storage.DeletePokemon(id)
}

// normalize lowercases type tags and checks them against the fixed
// vocabulary before any write.
func normalize(p *domain.Pokemon) error {
	if p.Id <= 0 {
		return &errors.ErrorWithStatusCode{Message: "Pokemon id must be positive", StatusCode: http.StatusBadRequest}
	}
	if p.Name.French == "" && p.Name.English == "" {
		return &errors.ErrorWithStatusCode{Message: "Pokemon name is required", StatusCode: http.StatusBadRequest}
	}
	for i, t := range p.Types {
		t = strings.ToLower(t)
		if !domain.PokemonTypes[t] {
			return &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unknown pokemon type: %s", t), StatusCode: http.StatusBadRequest}
		}
		p.Types[i] = t
	}
	return nil
}
