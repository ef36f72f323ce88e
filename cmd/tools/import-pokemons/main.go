// Command import-pokemons bulk-loads a pokedex JSON dump into the database.
// Re-running the import upserts records instead of failing on duplicates.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/domain"
	"github.com/gmorel-dev/pokedex/internal/storage/pg"
)

// rawPokemon matches the upstream pokedex.json dump format.
type rawPokemon struct {
	Id    int64              `json:"id"`
	Name  domain.PokemonName `json:"name"`
	Type  []string           `json:"type"`
	Base  map[string]int     `json:"base"`
	Image string             `json:"image"`
}

func (r rawPokemon) toDomain() domain.Pokemon {
	types := make([]string, len(r.Type))
	for i, t := range r.Type {
		types[i] = strings.ToLower(t)
	}
	return domain.Pokemon{
		Id:    r.Id,
		Name:  r.Name,
		Types: types,
		Image: r.Image,
		Stats: domain.PokemonStats{
			HP:             r.Base["HP"],
			Attack:         r.Base["Attack"],
			Defense:        r.Base["Defense"],
			SpecialAttack:  r.Base["Sp. Attack"],
			SpecialDefense: r.Base["Sp. Defense"],
			Speed:          r.Base["Speed"],
		},
		Evolutions: []int64{},
	}
}

func main() {
	var configFolder, dataPath string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&dataPath, "data", "data/pokemons.json", "path to the pokedex JSON dump")
	flag.Parse()

	cfg := config.MustLoad(configFolder)

	rawData, err := os.ReadFile(dataPath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", dataPath, err)
	}
	var raw []rawPokemon
	if err := json.Unmarshal(rawData, &raw); err != nil {
		log.Fatalf("failed to parse %s: %v", dataPath, err)
	}

	storage, err := pg.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer storage.Cleanup()

	imported := 0
	for _, r := range raw {
		if err := storage.UpsertPokemon(r.toDomain()); err != nil {
			log.Fatalf("failed to import pokemon %d: %v", r.Id, err)
		}
		imported++
	}
	log.Printf("imported %d pokemons", imported)
}
