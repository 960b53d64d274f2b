package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/film-catalog/internal/auth"
	"github.com/baharkarakas/film-catalog/internal/config"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository/memory"
	"github.com/baharkarakas/film-catalog/internal/services"
)

type testAPI struct {
	t     *testing.T
	h     http.Handler
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{JWTSecret: "test-secret", JWTIssuer: "film-catalog", JWTTTL: 30 * time.Minute}
	store := memory.New()
	tm := auth.NewTokenManager(cfg.Auth())

	h := NewRouter(RouterDeps{
		Cfg:       cfg,
		Gate:      services.NewAccessGate(store.Users(), tm, log),
		UserSvc:   services.NewUserService(store),
		FilmSvc:   services.NewFilmService(store),
		GenreSvc:  services.NewGenreService(store),
		ReviewSvc: services.NewReviewService(store, nil, log),
	})
	return &testAPI{t: t, h: h, store: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(email string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/users", "", map[string]any{
		"email": email, "name": "N", "password": "pw", "dateofbirth": "1990-01-01",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testAPI) login(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/token", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var tok services.Token
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok.AccessToken
}

func (a *testAPI) admin() string {
	a.t.Helper()
	hash, err := auth.HashPassword("pw")
	require.NoError(a.t, err)
	_, err = a.store.Users().Create(context.Background(), models.User{
		Email: "admin@example.com", Name: "Admin", PasswordHash: hash, Role: models.RoleFilmAdmin,
	})
	require.NoError(a.t, err)
	return a.login("admin@example.com")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := newTestAPI(t).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegistration(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/users", "", map[string]any{
		"email": "Ann@Example.com", "name": "Ann", "password": "pw", "dateofbirth": "1990-05-01", "gender": "f",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	u := decode[map[string]any](t, rec)
	assert.Equal(t, "ann@example.com", u["email"])
	assert.Equal(t, "1990-05-01", u["dateofbirth"])
	assert.Equal(t, "user", u["role"])
	assert.NotContains(t, u, "password_hash")

	rec = a.do(http.MethodPost, "/api/v1/users", "", map[string]any{
		"email": "ann@example.com", "name": "Ann", "password": "pw", "dateofbirth": "1990-05-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	young := time.Now().AddDate(-12, 0, 0).Format("2006-01-02")
	rec = a.do(http.MethodPost, "/api/v1/users", "", map[string]any{
		"email": "kid@example.com", "name": "Kid", "password": "pw", "dateofbirth": young,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/users", "", map[string]any{"email": "not-an-email", "name": "X", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decode[map[string]any](t, rec)["code"])
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)
	a.register("ann@example.com")

	form := url.Values{"username": {"ann@example.com"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[map[string]any](t, rec)
	assert.Equal(t, "bearer", tok["token_type"])
	assert.NotEmpty(t, tok["access_token"])

	wrong := a.do(http.MethodPost, "/api/v1/token", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	unknown := a.do(http.MethodPost, "/api/v1/token", "", map[string]string{"email": "bob@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	me := a.do(http.MethodGet, "/api/v1/users/me", a.login("ann@example.com"), nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ann@example.com", decode[map[string]any](t, me)["email"])

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/users/me", "garbage", nil).Code)
}

func TestFilmAdminRoutes(t *testing.T) {
	a := newTestAPI(t)
	a.register("ann@example.com")
	user := a.login("ann@example.com")
	admin := a.admin()

	film := map[string]any{"filmname": "Alien", "description": "space", "year": 1979, "genres": []string{"sci-fi", "horror"}}
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v1/films", "", film).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/films", user, film).Code)

	rec := a.do(http.MethodPost, "/api/v1/films", admin, film)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.FilmView](t, rec)
	assert.Equal(t, []string{"horror", "sci-fi"}, created.Genres)

	rec = a.do(http.MethodGet, "/api/v1/films", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	rec = a.do(http.MethodGet, "/api/v1/films/search?name=ali&genre=horror&year=1979", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.FilmView](t, rec), 1)

	rec = a.do(http.MethodPost, "/api/v1/films/"+created.ID+"/update", admin, map[string]any{"genres": []string{"thriller"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"thriller"}, decode[models.FilmView](t, rec).Genres)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/films/missing", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/films/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/films/"+created.ID, "", nil).Code)
}

func TestGenreRoutes(t *testing.T) {
	a := newTestAPI(t)
	admin := a.admin()

	rec := a.do(http.MethodPost, "/api/v1/genres", admin, map[string]string{"genrename": "noir"})
	require.Equal(t, http.StatusCreated, rec.Code)
	g := decode[models.Genre](t, rec)

	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/genres", admin, map[string]string{"genrename": "noir"}).Code)

	rec = a.do(http.MethodPost, "/api/v1/genres/"+g.ID+"/update", admin, map[string]string{"genrename": "neo-noir"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "neo-noir", decode[models.Genre](t, rec).Name)

	rec = a.do(http.MethodGet, "/api/v1/genres", "", nil)
	assert.Len(t, decode[[]models.Genre](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/genres/"+g.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/v1/genres/"+g.ID, admin, nil).Code)
}

func TestReviewLifecycle(t *testing.T) {
	a := newTestAPI(t)
	admin := a.admin()
	a.register("ann@example.com")
	a.register("bob@example.com")
	ann := a.login("ann@example.com")
	bob := a.login("bob@example.com")

	rec := a.do(http.MethodPost, "/api/v1/films", admin, map[string]any{"filmname": "Alien", "year": 1979})
	require.Equal(t, http.StatusCreated, rec.Code)
	film := decode[models.FilmView](t, rec)
	reviewsPath := "/api/v1/films/" + film.ID + "/reviews"

	body := map[string]any{"reviewtext": "loved it", "tengrade": 15, "binarygrade": true}
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, reviewsPath, "", body).Code)

	rec = a.do(http.MethodPost, reviewsPath, ann, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[models.ReviewView](t, rec)
	assert.Equal(t, 10, first.Grade)
	assert.Equal(t, 10.0, first.Film.AverageRating)
	assert.Equal(t, "ann@example.com", first.User.Email)

	rec = a.do(http.MethodPost, reviewsPath, ann, map[string]any{"reviewtext": "on reflection", "tengrade": 8, "binarygrade": true})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[models.ReviewView](t, rec)
	assert.Equal(t, first.ID, second.ID)

	rec = a.do(http.MethodGet, reviewsPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ReviewView](t, rec), 1)

	updatePath := "/api/v1/reviews/" + first.ID + "/update"
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, updatePath, bob, map[string]any{"tengrade": 1}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/api/v1/reviews/"+first.ID, bob, nil).Code)

	rec = a.do(http.MethodPost, updatePath, admin, map[string]any{"reviewtext": "moderated", "tengrade": 0, "binarygrade": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[models.ReviewView](t, rec).Grade)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, updatePath, ann, map[string]any{"reviewtext": "no grade"}).Code)

	rec = a.do(http.MethodDelete, "/api/v1/reviews/"+first.ID, ann, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[models.ReviewView](t, rec)
	assert.Equal(t, first.ID, deleted.ID)
	assert.Equal(t, 0.0, deleted.Film.AverageRating)

	rec = a.do(http.MethodGet, "/api/v1/films/"+film.ID, "", nil)
	assert.Equal(t, 0.0, decode[models.FilmView](t, rec).AverageRating)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/v1/reviews/"+first.ID, ann, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/films/missing/reviews", ann, body).Code)
}

func TestReviewGradeBeyondInt64IsClamped(t *testing.T) {
	a := newTestAPI(t)
	admin := a.admin()
	a.register("ann@example.com")
	ann := a.login("ann@example.com")

	rec := a.do(http.MethodPost, "/api/v1/films", admin, map[string]any{"filmname": "Alien", "year": 1979})
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/api/v1/films/" + decode[models.FilmView](t, rec).ID + "/reviews"

	rec = a.do(http.MethodPost, path, ann, map[string]any{"tengrade": json.Number("99999999999999999999")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10, decode[models.ReviewView](t, rec).Grade)

	rec = a.do(http.MethodPost, path, ann, map[string]any{"tengrade": json.Number("-99999999999999999999")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[models.ReviewView](t, rec).Grade)
}

func TestPaginationParams(t *testing.T) {
	a := newTestAPI(t)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/films?limit=abc", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/users?skip=-1", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/reviews?skip=0&limit=500", "", nil).Code)
}
