package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/handler"
	mw "github.com/gmorel-dev/pokedex/internal/middleware"
	"github.com/gmorel-dev/pokedex/internal/middleware/metrics"
)

// New wires all routes. Registration and login are public; everything under
// /api/pokemons and /api/users/favorites requires a bearer token, and
// catalog mutations additionally require the admin role.
func New(h *handler.Handler, authMw *mw.Auth, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Public.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/", h.Home)
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.Public.AssetsDir != "" {
		fs := http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.Public.AssetsDir)))
		r.Get("/assets/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAuth())
				r.Get("/favorites", h.GetFavorites)
				r.Post("/favorites/{pokemonId}", h.AddFavorite)
				r.Delete("/favorites/{pokemonId}", h.RemoveFavorite)
			})
		})

		r.Route("/pokemons", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAuth())
				r.Get("/", h.GetPokemons)
				r.Get("/{id}", h.GetPokemon)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAdmin())
				r.Post("/", h.CreatePokemon)
				r.Put("/{id}", h.UpdatePokemon)
				r.Delete("/{id}", h.DeletePokemon)
			})
		})
	})

	return r
}
