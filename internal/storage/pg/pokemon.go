package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.PokemonStorage interface)
// =========================================================================

// SavePokemon inserts a new pokemon record inside a transaction.
func (s *Storage) SavePokemon(p domain.Pokemon) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.savePokemon(tx, p)
	})
}

// UpsertPokemon inserts or fully replaces a pokemon record. Used by the bulk
// import tool so re-running an import converges instead of failing.
func (s *Storage) UpsertPokemon(p domain.Pokemon) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(insertPokemon+`
            ON CONFLICT (id) DO UPDATE SET
                name_english = EXCLUDED.name_english,
                name_japanese = EXCLUDED.name_japanese,
                name_chinese = EXCLUDED.name_chinese,
                name_french = EXCLUDED.name_french,
                types = EXCLUDED.types,
                type_images = EXCLUDED.type_images,
                image = EXCLUDED.image,
                hp = EXCLUDED.hp, attack = EXCLUDED.attack, defense = EXCLUDED.defense,
                special_attack = EXCLUDED.special_attack, special_defense = EXCLUDED.special_defense,
                speed = EXCLUDED.speed,
                evolutions = EXCLUDED.evolutions,
                updated_at = now()`,
			pokemonArgs(p)...)
		if err != nil {
			return fmt.Errorf("failed to upsert pokemon: %w", err)
		}
		return nil
	})
}

// Pokemon fetches a single record by its stable identifier.
func (s *Storage) Pokemon(id domain.PokemonId) (domain.Pokemon, error) {
	return s.pokemon(s.db, id)
}

// UpdatePokemon fully replaces an existing record.
func (s *Storage) UpdatePokemon(p domain.Pokemon) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePokemon(tx, p)
	})
}

// DeletePokemon removes a record and returns it.
func (s *Storage) DeletePokemon(id domain.PokemonId) (domain.Pokemon, error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var deleted domain.Pokemon
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = s.deletePokemon(tx, id)
		return err
	})
	return deleted, err
}

// Pokemons returns one page of the catalog plus the total match count.
func (s *Storage) Pokemons(filter domain.PokemonFilter) ([]domain.Pokemon, int, error) {
	where, args := buildFilter(filter)

	var total int
	if err := s.db.QueryRow("SELECT count(*) FROM pokemons"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pokemons: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s%s ORDER BY id LIMIT $%d OFFSET $%d", selectPokemon, where, len(args)+1, len(args)+2)
	rows, err := s.db.Query(query, append(args, filter.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pokemons: %w", err)
	}
	defer rows.Close()

	pokemons, err := scanPokemons(rows)
	if err != nil {
		return nil, 0, err
	}
	return pokemons, total, nil
}

// PokemonsByIds fetches the given records, preserving the order of ids.
// Missing ids are silently skipped (favorites may dangle, see service layer).
func (s *Storage) PokemonsByIds(ids []domain.PokemonId) ([]domain.Pokemon, error) {
	if len(ids) == 0 {
		return []domain.Pokemon{}, nil
	}

	rows, err := s.db.Query(selectPokemon+" WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query pokemons by ids: %w", err)
	}
	defer rows.Close()

	fetched, err := scanPokemons(rows)
	if err != nil {
		return nil, err
	}

	byId := make(map[domain.PokemonId]domain.Pokemon, len(fetched))
	for _, p := range fetched {
		byId[p.Id] = p
	}
	ordered := make([]domain.Pokemon, 0, len(ids))
	for _, id := range ids {
		if p, ok := byId[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// PokemonTypes returns the distinct type tags present in the collection.
func (s *Storage) PokemonTypes() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT unnest(types) AS t FROM pokemons ORDER BY t")
	if err != nil {
		return nil, fmt.Errorf("failed to query pokemon types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan pokemon type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

const selectPokemon = `
    SELECT id, name_english, name_japanese, name_chinese, name_french,
           types, type_images, image,
           hp, attack, defense, special_attack, special_defense, speed,
           evolutions,
           (created_at at time zone 'utc'), (updated_at at time zone 'utc')
    FROM pokemons`

const insertPokemon = `
    INSERT INTO pokemons(id, name_english, name_japanese, name_chinese, name_french,
                         types, type_images, image,
                         hp, attack, defense, special_attack, special_defense, speed,
                         evolutions)
    VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func pokemonArgs(p domain.Pokemon) []interface{} {
	return []interface{}{
		p.Id, p.Name.English, p.Name.Japanese, p.Name.Chinese, p.Name.French,
		pq.Array(p.Types), pq.Array(p.TypeImages), p.Image,
		p.Stats.HP, p.Stats.Attack, p.Stats.Defense,
		p.Stats.SpecialAttack, p.Stats.SpecialDefense, p.Stats.Speed,
		pq.Array(p.Evolutions),
	}
}

func (s *Storage) savePokemon(q Querier, p domain.Pokemon) error {
	_, err := q.Exec(insertPokemon, pokemonArgs(p)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "Pokemon already exists", StatusCode: http.StatusBadRequest}
		}
		return fmt.Errorf("failed to insert pokemon: %w", err)
	}
	return nil
}

func (s *Storage) pokemon(q Querier, id domain.PokemonId) (domain.Pokemon, error) {
	return scanPokemonRow(q.QueryRow(selectPokemon+" WHERE id = $1", id))
}

func (s *Storage) updatePokemon(q Querier, p domain.Pokemon) error {
	result, err := q.Exec(`
        UPDATE pokemons SET
            name_english = $2, name_japanese = $3, name_chinese = $4, name_french = $5,
            types = $6, type_images = $7, image = $8,
            hp = $9, attack = $10, defense = $11,
            special_attack = $12, special_defense = $13, speed = $14,
            evolutions = $15,
            updated_at = now()
        WHERE id = $1`,
		pokemonArgs(p)...)
	if err != nil {
		return fmt.Errorf("failed to update pokemon: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for pokemon update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Pokemon not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deletePokemon(q Querier, id domain.PokemonId) (domain.Pokemon, error) {
	p, err := s.pokemon(q, id)
	if err != nil {
		return domain.Pokemon{}, err
	}
	if _, err := q.Exec("DELETE FROM pokemons WHERE id = $1", id); err != nil {
		return domain.Pokemon{}, fmt.Errorf("failed to delete pokemon: %w", err)
	}
	return p, nil
}

func buildFilter(filter domain.PokemonFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.Types) > 0 {
		args = append(args, pq.Array(filter.Types))
		conditions = append(conditions, fmt.Sprintf("types @> $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name_french ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanPokemonRow(row *sql.Row) (domain.Pokemon, error) {
	var p domain.Pokemon
	var types, typeImages pq.StringArray
	var evolutions pq.Int64Array
	err := row.Scan(
		&p.Id, &p.Name.English, &p.Name.Japanese, &p.Name.Chinese, &p.Name.French,
		&types, &typeImages, &p.Image,
		&p.Stats.HP, &p.Stats.Attack, &p.Stats.Defense,
		&p.Stats.SpecialAttack, &p.Stats.SpecialDefense, &p.Stats.Speed,
		&evolutions, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Pokemon{}, &internal_errors.ErrorWithStatusCode{Message: "Pokemon not found", StatusCode: http.StatusNotFound}
		}
		return domain.Pokemon{}, fmt.Errorf("failed to query pokemon: %w", err)
	}
	p.Types, p.TypeImages, p.Evolutions = types, typeImages, evolutions
	return p, nil
}

func scanPokemons(rows *sql.Rows) ([]domain.Pokemon, error) {
	pokemons := []domain.Pokemon{}
	for rows.Next() {
		var p domain.Pokemon
		var types, typeImages pq.StringArray
		var evolutions pq.Int64Array
		err := rows.Scan(
			&p.Id, &p.Name.English, &p.Name.Japanese, &p.Name.Chinese, &p.Name.French,
			&types, &typeImages, &p.Image,
			&p.Stats.HP, &p.Stats.Attack, &p.Stats.Defense,
			&p.Stats.SpecialAttack, &p.Stats.SpecialDefense, &p.Stats.Speed,
			&evolutions, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pokemon: %w", err)
		}
		p.Types, p.TypeImages, p.Evolutions = types, typeImages, evolutions
		pokemons = append(pokemons, p)
	}
	return pokemons, rows.Err()
}
