package domain

import "time"

type PokemonId = int64

// PokemonTypes is the fixed type vocabulary. Incoming types are lowercased
// before being checked against it.
var PokemonTypes = map[string]bool{
	"fire": true, "water": true, "grass": true, "electric": true,
	"ice": true, "fighting": true, "poison": true, "ground": true,
	"flying": true, "psychic": true, "bug": true, "rock": true,
	"ghost": true, "dragon": true, "dark": true, "steel": true,
	"fairy": true, "normal": true,
}

type PokemonName struct {
	English  string `json:"english,omitempty"`
	Japanese string `json:"japanese,omitempty"`
	Chinese  string `json:"chinese,omitempty"`
	French   string `json:"french,omitempty"`
}

type PokemonStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`
}

// PokemonFilter narrows the catalog listing. Types must ALL be present on a
// matching record; Name is a case-insensitive substring of the French name.
type PokemonFilter struct {
	Types []string
	Name  string
	Page  int
	Limit int
}

type Pokemon struct {
	Id         PokemonId    `json:"id"`
	Name       PokemonName  `json:"name"`
	Types      []string     `json:"types"`
	TypeImages []string     `json:"typeImages"`
	Image      string       `json:"image,omitempty"`
	Stats      PokemonStats `json:"stats"`
	Evolutions []PokemonId  `json:"evolutions"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
