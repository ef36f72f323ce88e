package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/domain"
	internal_errors "github.com/gmorel-dev/pokedex/internal/errors"
	"github.com/gmorel-dev/pokedex/internal/handler"
	"github.com/gmorel-dev/pokedex/internal/jwt"
	"github.com/gmorel-dev/pokedex/internal/middleware"
	"github.com/gmorel-dev/pokedex/internal/router"
	"github.com/gmorel-dev/pokedex/internal/service"
)

// memStorage is an in-memory stand-in for the pg layer, implementing the
// storage interfaces of all services plus the middleware's UserStore.
type memStorage struct {
	users    map[domain.UserId]domain.User
	pokemons map[domain.PokemonId]domain.Pokemon
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:    map[domain.UserId]domain.User{},
		pokemons: map[domain.PokemonId]domain.Pokemon{},
	}
}

func notFound(what string) error {
	return &internal_errors.ErrorWithStatusCode{Message: what + " not found", StatusCode: http.StatusNotFound}
}

func (m *memStorage) SaveUser(user domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return &internal_errors.ErrorWithStatusCode{Message: "Email already used", StatusCode: http.StatusBadRequest}
		}
	}
	m.users[user.Id] = user
	return nil
}

func (m *memStorage) UserByEmail(email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, notFound("User")
}

func (m *memStorage) UserById(id domain.UserId) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, notFound("User")
	}
	return u, nil
}

func (m *memStorage) AddFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("User")
	}
	for _, fav := range u.Favorites {
		if fav == pokemonId {
			return u.Favorites, nil
		}
	}
	u.Favorites = append(u.Favorites, pokemonId)
	m.users[id] = u
	return u.Favorites, nil
}

func (m *memStorage) RemoveFavorite(id domain.UserId, pokemonId domain.PokemonId) ([]int64, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("User")
	}
	kept := []int64{}
	for _, fav := range u.Favorites {
		if fav != pokemonId {
			kept = append(kept, fav)
		}
	}
	u.Favorites = kept
	m.users[id] = u
	return kept, nil
}

func (m *memStorage) SavePokemon(p domain.Pokemon) error {
	if _, ok := m.pokemons[p.Id]; ok {
		return &internal_errors.ErrorWithStatusCode{Message: "Pokemon already exists", StatusCode: http.StatusBadRequest}
	}
	m.pokemons[p.Id] = p
	return nil
}

func (m *memStorage) Pokemon(id domain.PokemonId) (domain.Pokemon, error) {
	p, ok := m.pokemons[id]
	if !ok {
		return domain.Pokemon{}, notFound("Pokemon")
	}
	return p, nil
}

func (m *memStorage) UpdatePokemon(p domain.Pokemon) error {
	if _, ok := m.pokemons[p.Id]; !ok {
		return notFound("Pokemon")
	}
	m.pokemons[p.Id] = p
	return nil
}

func (m *memStorage) DeletePokemon(id domain.PokemonId) (domain.Pokemon, error) {
	p, ok := m.pokemons[id]
	if !ok {
		return domain.Pokemon{}, notFound("Pokemon")
	}
	delete(m.pokemons, id)
	return p, nil
}

func (m *memStorage) Pokemons(filter domain.PokemonFilter) ([]domain.Pokemon, int, error) {
	matched := []domain.Pokemon{}
	for _, p := range m.pokemons {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	return matched, len(matched), nil
}

func matchesFilter(p domain.Pokemon, filter domain.PokemonFilter) bool {
	for _, want := range filter.Types {
		found := false
		for _, have := range p.Types {
			if have == want {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return filter.Name == "" || strings.Contains(strings.ToLower(p.Name.French), strings.ToLower(filter.Name))
}

func (m *memStorage) PokemonsByIds(ids []domain.PokemonId) ([]domain.Pokemon, error) {
	result := []domain.Pokemon{}
	for _, id := range ids {
		if p, ok := m.pokemons[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *memStorage) PokemonTypes() ([]string, error) {
	seen := map[string]bool{}
	types := []string{}
	for _, p := range m.pokemons {
		for _, t := range p.Types {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	return types, nil
}

// newTestRouter wires the real services, jwt and middleware over memStorage.
func newTestRouter(t *testing.T, storage *memStorage) *chi.Mux {
	t.Helper()
	cfg := &config.Config{}

	jwtService := jwt.New("test_secret", cfg.JwtTTL())
	auth := service.NewAuth(storage, jwtService)
	pokemon := service.NewPokemon(storage, cfg.Public.PokemonPerPage)
	favorites := service.NewFavorites(storage)

	h := handler.New(auth, pokemon, favorites, cfg)
	authMw := middleware.NewAuth(jwtService, storage)
	return router.New(h, authMw, cfg)
}

func doJSON(t *testing.T, r http.Handler, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRegisterLoginFavoritesScenario(t *testing.T) {
	storage := newMemStorage()
	storage.pokemons[25] = domain.Pokemon{Id: 25, Name: domain.PokemonName{French: "Pikachu"}, Types: []string{"electric"}}
	r := newTestRouter(t, storage)

	// register
	rr := doJSON(t, r, "POST", "/api/users/register", "", map[string]string{
		"email": "a@b.com", "nom": "Ash", "password": "pikachu1",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var registered struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)

	// login with the same credentials
	rr = doJSON(t, r, "POST", "/api/users/login", "", map[string]string{
		"email": "a@b.com", "password": "pikachu1",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var loggedIn struct {
		Message string `json:"message"`
		User    struct {
			Nom   string `json:"nom"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loggedIn))
	require.Equal(t, "Ash", loggedIn.User.Nom)
	require.Equal(t, "a@b.com", loggedIn.User.Email)
	require.NotEmpty(t, loggedIn.Token)

	// add favorite 25 using the token
	rr = doJSON(t, r, "POST", "/api/users/favorites/25", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var favs struct {
		Favorites []int64 `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &favs))
	require.Equal(t, []int64{25}, favs.Favorites)

	// adding the same id again keeps exactly one occurrence
	rr = doJSON(t, r, "POST", "/api/users/favorites/25", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &favs))
	require.Equal(t, []int64{25}, favs.Favorites)

	// full records come back on list
	rr = doJSON(t, r, "GET", "/api/users/favorites", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var expanded struct {
		Favorites []domain.Pokemon `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &expanded))
	require.Len(t, expanded.Favorites, 1)
	require.Equal(t, "Pikachu", expanded.Favorites[0].Name.French)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t, newMemStorage())

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing password", body: map[string]string{"email": "a@b.com", "nom": "Ash"}},
		{name: "missing nom", body: map[string]string{"email": "a@b.com", "password": "pikachu1"}},
		{name: "malformed email", body: map[string]string{"email": "nope", "nom": "Ash", "password": "pikachu1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, r, "POST", "/api/users/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestDuplicateRegistration(t *testing.T) {
	r := newTestRouter(t, newMemStorage())

	body := map[string]string{"email": "a@b.com", "nom": "Ash", "password": "pikachu1"}
	rr := doJSON(t, r, "POST", "/api/users/register", "", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, "POST", "/api/users/register", "", body)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestLoginErrors(t *testing.T) {
	storage := newMemStorage()
	r := newTestRouter(t, storage)

	rr := doJSON(t, r, "POST", "/api/users/register", "", map[string]string{
		"email": "a@b.com", "nom": "Ash", "password": "pikachu1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("unknown user", func(t *testing.T) {
		rr := doJSON(t, r, "POST", "/api/users/login", "", map[string]string{
			"email": "nobody@b.com", "password": "pikachu1",
		})
		require.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(t, r, "POST", "/api/users/login", "", map[string]string{
			"email": "a@b.com", "password": "raichu",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})
}

func TestPokemonRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t, newMemStorage())

	for _, route := range []struct{ method, url string }{
		{"GET", "/api/pokemons"},
		{"GET", "/api/pokemons/25"},
		{"GET", "/api/users/favorites"},
		{"POST", "/api/users/favorites/25"},
		{"DELETE", "/api/users/favorites/25"},
	} {
		t.Run(fmt.Sprintf("%s %s", route.method, route.url), func(t *testing.T) {
			rr := doJSON(t, r, route.method, route.url, "", nil)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestPokemonMutationsRequireAdmin(t *testing.T) {
	storage := newMemStorage()
	r := newTestRouter(t, storage)

	rr := doJSON(t, r, "POST", "/api/users/register", "", map[string]string{
		"email": "a@b.com", "nom": "Ash", "password": "pikachu1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))

	pokemon := map[string]any{"id": 25, "name": map[string]string{"french": "Pikachu"}, "types": []string{"electric"}}
	rr = doJSON(t, r, "POST", "/api/pokemons", registered.Token, pokemon)
	require.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
}

func TestPokemonCRUDAsAdmin(t *testing.T) {
	storage := newMemStorage()
	r := newTestRouter(t, storage)

	// promote a registered user to admin directly in the store
	rr := doJSON(t, r, "POST", "/api/users/register", "", map[string]string{
		"email": "admin@b.com", "nom": "Admin", "password": "secret12",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	for id, u := range storage.users {
		u.Role = domain.RoleAdmin
		storage.users[id] = u
	}
	rr = doJSON(t, r, "POST", "/api/users/login", "", map[string]string{
		"email": "admin@b.com", "password": "secret12",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var loggedIn struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loggedIn))
	token := loggedIn.Token

	// create
	pokemon := map[string]any{
		"id":    25,
		"name":  map[string]string{"french": "Pikachu", "english": "Pikachu"},
		"types": []string{"Electric"},
		"stats": map[string]int{"hp": 35, "attack": 55},
	}
	rr = doJSON(t, r, "POST", "/api/pokemons", token, pokemon)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created domain.Pokemon
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, []string{"electric"}, created.Types, "types are normalized to lowercase")

	// get
	rr = doJSON(t, r, "GET", "/api/pokemons/25", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// list with filter
	rr = doJSON(t, r, "GET", "/api/pokemons?type=electric&name=pika", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Total    int              `json:"total"`
		Types    []string         `json:"types"`
		Pokemons []domain.Pokemon `json:"pokemons"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.Len(t, list.Pokemons, 1)

	// update
	pokemon["name"] = map[string]string{"french": "Pikachou"}
	rr = doJSON(t, r, "PUT", "/api/pokemons/25", token, pokemon)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated domain.Pokemon
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Equal(t, "Pikachou", updated.Name.French)

	// delete
	rr = doJSON(t, r, "DELETE", "/api/pokemons/25", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var deleted struct {
		Message string         `json:"message"`
		Pokemon domain.Pokemon `json:"pokemon"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleted))
	require.Equal(t, int64(25), deleted.Pokemon.Id)

	// gone
	rr = doJSON(t, r, "GET", "/api/pokemons/25", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddFavoriteUnknownPokemon(t *testing.T) {
	storage := newMemStorage()
	r := newTestRouter(t, storage)

	rr := doJSON(t, r, "POST", "/api/users/register", "", map[string]string{
		"email": "a@b.com", "nom": "Ash", "password": "pikachu1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))

	rr = doJSON(t, r, "POST", "/api/users/favorites/9999", registered.Token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())

	rr = doJSON(t, r, "POST", "/api/users/favorites/abc", registered.Token, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}
