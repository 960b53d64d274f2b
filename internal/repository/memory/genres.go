package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type genresRepo struct{ v *view }

func findGenre(st *state, name string) (models.Genre, bool) {
	for _, g := range st.genres {
		if g.Name == name {
			return g, true
		}
	}
	return models.Genre{}, false
}

func insertGenre(st *state, name string) models.Genre {
	g := models.Genre{ID: uuid.NewString(), Name: name}
	st.genres[g.ID] = g
	st.track(g.ID)
	return g
}

func (r *genresRepo) Create(_ context.Context, name string) (models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	if _, ok := findGenre(st, name); ok {
		return models.Genre{}, apperr.Conflict("genre already exists")
	}
	return insertGenre(st, name), nil
}

func (r *genresRepo) GetOrCreate(_ context.Context, name string) (models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	if g, ok := findGenre(st, name); ok {
		return g, nil
	}
	return insertGenre(st, name), nil
}

func (r *genresRepo) GetByID(_ context.Context, id string) (models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	g, ok := st.genres[id]
	if !ok {
		return models.Genre{}, apperr.NotFound("genre not found")
	}
	return g, nil
}

func (r *genresRepo) List(_ context.Context, p repository.Page) ([]models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	out := make([]models.Genre, 0, len(st.genres))
	for _, g := range st.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, p), nil
}

func (r *genresRepo) Update(_ context.Context, g models.Genre) (models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	if _, ok := st.genres[g.ID]; !ok {
		return models.Genre{}, apperr.NotFound("genre not found")
	}
	if other, ok := findGenre(st, g.Name); ok && other.ID != g.ID {
		return models.Genre{}, apperr.Conflict("genre already exists")
	}
	st.genres[g.ID] = g
	return g, nil
}

func (r *genresRepo) Delete(_ context.Context, id string) (models.Genre, error) {
	st, release := r.v.acquire()
	defer release()

	g, ok := st.genres[id]
	if !ok {
		return models.Genre{}, apperr.NotFound("genre not found")
	}
	delete(st.genres, id)
	delete(st.order, id)
	for _, set := range st.filmGenres {
		delete(set, id)
	}
	return g, nil
}

func (r *genresRepo) NamesForFilm(_ context.Context, filmID string) ([]string, error) {
	st, release := r.v.acquire()
	defer release()

	seen := map[string]struct{}{}
	names := []string{}
	for gid := range st.filmGenres[filmID] {
		n := st.genres[gid].Name
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
