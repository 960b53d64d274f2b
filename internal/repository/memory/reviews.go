package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type reviewsRepo struct{ v *view }

func reviewID(r models.Review) string { return r.ID }

func (r *reviewsRepo) Upsert(_ context.Context, rv models.Review) (models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	if _, ok := st.films[rv.FilmID]; !ok {
		return models.Review{}, apperr.NotFound("film not found")
	}
	if _, ok := st.users[rv.UserID]; !ok {
		return models.Review{}, apperr.NotFound("user not found")
	}

	now := r.v.now()
	for id, cur := range st.reviews {
		if cur.FilmID == rv.FilmID && cur.UserID == rv.UserID {
			cur.Text, cur.Grade, cur.Recommend = rv.Text, rv.Grade, rv.Recommend
			cur.UpdatedAt = now
			st.reviews[id] = cur
			return cur, nil
		}
	}

	rv.ID = uuid.NewString()
	rv.CreatedAt, rv.UpdatedAt = now, now
	st.reviews[rv.ID] = rv
	st.track(rv.ID)
	return rv, nil
}

func (r *reviewsRepo) GetByID(_ context.Context, id string) (models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	rv, ok := st.reviews[id]
	if !ok {
		return models.Review{}, apperr.NotFound("review not found")
	}
	return rv, nil
}

// GetForUpdate is GetByID: a transaction already owns the whole store.
func (r *reviewsRepo) GetForUpdate(ctx context.Context, id string) (models.Review, error) {
	return r.GetByID(ctx, id)
}

func (r *reviewsRepo) Update(_ context.Context, rv models.Review) (models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	cur, ok := st.reviews[rv.ID]
	if !ok {
		return models.Review{}, apperr.NotFound("review not found")
	}
	cur.Text, cur.Grade, cur.Recommend = rv.Text, rv.Grade, rv.Recommend
	cur.UpdatedAt = r.v.now()
	st.reviews[rv.ID] = cur
	return cur, nil
}

func (r *reviewsRepo) Delete(_ context.Context, id string) (models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	rv, ok := st.reviews[id]
	if !ok {
		return models.Review{}, apperr.NotFound("review not found")
	}
	delete(st.reviews, id)
	delete(st.order, id)
	return rv, nil
}

func (r *reviewsRepo) List(_ context.Context, p repository.Page) ([]models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	return window(sorted(st, st.reviews, reviewID), p), nil
}

func (r *reviewsRepo) ListByFilm(_ context.Context, filmID string, p repository.Page) ([]models.Review, error) {
	st, release := r.v.acquire()
	defer release()

	var out []models.Review
	for _, rv := range sorted(st, st.reviews, reviewID) {
		if rv.FilmID == filmID {
			out = append(out, rv)
		}
	}
	return window(out, p), nil
}

func (r *reviewsRepo) StatsForFilm(_ context.Context, filmID string) (models.GradeStats, error) {
	st, release := r.v.acquire()
	defer release()

	var s models.GradeStats
	for _, rv := range st.reviews {
		if rv.FilmID == filmID {
			s.Sum += int64(rv.Grade)
			s.Count++
		}
	}
	return s, nil
}
