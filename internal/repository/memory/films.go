package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type filmsRepo struct{ v *view }

func filmID(f models.Film) string { return f.ID }

func (r *filmsRepo) Create(_ context.Context, f models.Film) (models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = r.v.now()
	st.films[f.ID] = f
	st.track(f.ID)
	return f, nil
}

func (r *filmsRepo) GetByID(_ context.Context, id string) (models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	f, ok := st.films[id]
	if !ok {
		return models.Film{}, apperr.NotFound("film not found")
	}
	return f, nil
}

func (r *filmsRepo) List(_ context.Context, p repository.Page) ([]models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	return window(sorted(st, st.films, filmID), p), nil
}

func (r *filmsRepo) Count(_ context.Context) (int64, error) {
	st, release := r.v.acquire()
	defer release()

	return int64(len(st.films)), nil
}

func (r *filmsRepo) Search(_ context.Context, q models.FilmSearch, p repository.Page) ([]models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	needle := strings.ToLower(q.Name)
	var out []models.Film
	for _, f := range sorted(st, st.films, filmID) {
		if needle != "" && !strings.Contains(strings.ToLower(f.Name), needle) {
			continue
		}
		if q.Year != 0 && f.Year != q.Year {
			continue
		}
		if q.Genre != "" && !hasGenreNamed(st, f.ID, q.Genre) {
			continue
		}
		out = append(out, f)
	}
	return window(out, p), nil
}

func hasGenreNamed(st *state, filmID, name string) bool {
	for gid := range st.filmGenres[filmID] {
		if st.genres[gid].Name == name {
			return true
		}
	}
	return false
}

func (r *filmsRepo) Update(_ context.Context, f models.Film) (models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	cur, ok := st.films[f.ID]
	if !ok {
		return models.Film{}, apperr.NotFound("film not found")
	}
	cur.Name, cur.Description, cur.Year = f.Name, f.Description, f.Year
	st.films[f.ID] = cur
	return cur, nil
}

func (r *filmsRepo) Delete(_ context.Context, id string) (models.Film, error) {
	st, release := r.v.acquire()
	defer release()

	f, ok := st.films[id]
	if !ok {
		return models.Film{}, apperr.NotFound("film not found")
	}
	delete(st.films, id)
	delete(st.order, id)
	delete(st.filmGenres, id)
	for rid, rv := range st.reviews {
		if rv.FilmID == id {
			delete(st.reviews, rid)
			delete(st.order, rid)
		}
	}
	return f, nil
}

func (r *filmsRepo) SetGenres(_ context.Context, filmID string, genreIDs []string) error {
	st, release := r.v.acquire()
	defer release()

	if _, ok := st.films[filmID]; !ok {
		return apperr.NotFound("film not found")
	}
	set := make(map[string]struct{}, len(genreIDs))
	for _, gid := range genreIDs {
		if _, ok := st.genres[gid]; !ok {
			return apperr.NotFound("genre not found")
		}
		set[gid] = struct{}{}
	}
	st.filmGenres[filmID] = set
	return nil
}
