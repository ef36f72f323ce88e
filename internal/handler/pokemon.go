package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gmorel-dev/pokedex/internal/domain"
	"github.com/gmorel-dev/pokedex/internal/utils"
)

type pokemonRequest struct {
	Id         int64               `json:"id"`
	Name       domain.PokemonName  `json:"name"`
	Types      []string            `json:"types"`
	TypeImages []string            `json:"typeImages"`
	Image      string              `json:"image"`
	Stats      domain.PokemonStats `json:"stats"`
	Evolutions []int64             `json:"evolutions"`
}

func (b pokemonRequest) toDomain() domain.Pokemon {
	return domain.Pokemon{
		Id:         b.Id,
		Name:       b.Name,
		Types:      b.Types,
		TypeImages: b.TypeImages,
		Image:      b.Image,
		Stats:      b.Stats,
		Evolutions: b.Evolutions,
	}
}

type pokemonListResponse struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
	Types      []string         `json:"types"`
	Pokemons   []domain.Pokemon `json:"pokemons"`
}

type pokemonDeletedResponse struct {
	Message string         `json:"message"`
	Pokemon domain.Pokemon `json:"pokemon"`
}

func (h *Handler) GetPokemons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter domain.PokemonFilter
	var err error
	if pageQuery := query.Get("page"); pageQuery != "" {
		if filter.Page, err = parseIntParam(pageQuery, "page"); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
			return
		}
	}
	if limitQuery := query.Get("limit"); limitQuery != "" {
		if filter.Limit, err = parseIntParam(limitQuery, "limit"); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
			return
		}
	}
	if typeQuery := query.Get("type"); typeQuery != "" {
		filter.Types = strings.Split(typeQuery, ",")
	}
	filter.Name = query.Get("name")

	page, err := h.pokemon.List(filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, pokemonListResponse{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Types:      page.Types,
		Pokemons:   page.Pokemons,
	})
}

func (h *Handler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	pokemon, err := h.pokemon.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, pokemon)
}

func (h *Handler) CreatePokemon(w http.ResponseWriter, r *http.Request) {
	var body pokemonRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	created, err := h.pokemon.Create(body.toDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdatePokemon(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	var body pokemonRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	pokemon := body.toDomain()
	pokemon.Id = id // the URL identifies the record, not the body

	updated, err := h.pokemon.Update(pokemon)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePokemon(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	deleted, err := h.pokemon.Delete(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, pokemonDeletedResponse{
		Message: "Pokemon deleted successfully",
		Pokemon: deleted,
	})
}
