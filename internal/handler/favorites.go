package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gmorel-dev/pokedex/internal/domain"
	mw "github.com/gmorel-dev/pokedex/internal/middleware"
	"github.com/gmorel-dev/pokedex/internal/utils"
)

type favoriteIdsResponse struct {
	Favorites []int64 `json:"favorites"`
}

type favoritesResponse struct {
	Favorites []domain.Pokemon `json:"favorites"`
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "Not authorized"})
		return
	}

	pokemonId, err := parseInt64Param(chi.URLParam(r, "pokemonId"), "pokemonId")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	favorites, err := h.favorites.Add(user, pokemonId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, favoriteIdsResponse{Favorites: favorites})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "Not authorized"})
		return
	}

	pokemonId, err := parseInt64Param(chi.URLParam(r, "pokemonId"), "pokemonId")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	favorites, err := h.favorites.Remove(user, pokemonId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, favoriteIdsResponse{Favorites: favorites})
}

func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Message: "Not authorized"})
		return
	}

	favorites, err := h.favorites.Get(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, favoritesResponse{Favorites: favorites})
}
