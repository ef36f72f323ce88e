package handler

import (
	"net/http"

	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/service"
	"github.com/gmorel-dev/pokedex/internal/utils"
)

type Handler struct {
	auth      service.AuthService
	pokemon   service.PokemonService
	favorites service.FavoritesService
	cfg       *config.Config
}

func New(auth service.AuthService, pokemon service.PokemonService, favorites service.FavoritesService, cfg *config.Config) *Handler {
	return &Handler{auth, pokemon, favorites, cfg}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Pokemon API"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
