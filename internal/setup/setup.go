package setup

import (
	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/handler"
	"github.com/gmorel-dev/pokedex/internal/jwt"
	"github.com/gmorel-dev/pokedex/internal/middleware"
	"github.com/gmorel-dev/pokedex/internal/service"
	"github.com/gmorel-dev/pokedex/internal/storage/pg"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Jwt            jwt.JwtService
}

// SetupDependencies initializes all dependencies required for the application.
// The signing secret and store handle are injected here, never read from
// ambient globals.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, jwtService)
	pokemon := service.NewPokemon(storage, cfg.Public.PokemonPerPage)
	favorites := service.NewFavorites(storage)

	h := handler.New(auth, pokemon, favorites, cfg)
	authMw := middleware.NewAuth(jwtService, storage)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Jwt:            jwtService,
	}, nil
}
