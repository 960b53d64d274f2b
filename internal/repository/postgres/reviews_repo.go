package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type reviewsRepo struct{ q querier }

const reviewColumns = `id::text, text, grade, recommend, film_id::text, user_id::text, created_at, updated_at`

func scanReview(row pgx.Row) (models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.Text, &rv.Grade, &rv.Recommend, &rv.FilmID, &rv.UserID, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func (r *reviewsRepo) collect(rows pgx.Rows, err error) ([]models.Review, error) {
	if err != nil {
		return nil, mapErr(err, "review")
	}
	defer rows.Close()
	out := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, mapErr(err, "review")
		}
		out = append(out, rv)
	}
	return out, mapErr(rows.Err(), "review")
}

func (r *reviewsRepo) Upsert(ctx context.Context, rv models.Review) (models.Review, error) {
	out, err := scanReview(r.q.QueryRow(ctx,
		`INSERT INTO reviews(id, text, grade, recommend, film_id, user_id)
		 VALUES($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (film_id, user_id) DO UPDATE
		 SET text = EXCLUDED.text, grade = EXCLUDED.grade, recommend = EXCLUDED.recommend, updated_at = now()
		 RETURNING `+reviewColumns,
		uuid.NewString(), rv.Text, rv.Grade, rv.Recommend, rv.FilmID, rv.UserID,
	))
	// user ids come from verified identities; a malformed id here is the film's
	return out, mapErr(err, "film")
}

func (r *reviewsRepo) GetByID(ctx context.Context, id string) (models.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	return rv, mapErr(err, "review")
}

func (r *reviewsRepo) GetForUpdate(ctx context.Context, id string) (models.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1 FOR UPDATE`, id))
	return rv, mapErr(err, "review")
}

func (r *reviewsRepo) Update(ctx context.Context, rv models.Review) (models.Review, error) {
	out, err := scanReview(r.q.QueryRow(ctx,
		`UPDATE reviews SET text=$2, grade=$3, recommend=$4, updated_at=now() WHERE id=$1
		 RETURNING `+reviewColumns,
		rv.ID, rv.Text, rv.Grade, rv.Recommend,
	))
	return out, mapErr(err, "review")
}

func (r *reviewsRepo) Delete(ctx context.Context, id string) (models.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, `DELETE FROM reviews WHERE id=$1 RETURNING `+reviewColumns, id))
	return rv, mapErr(err, "review")
}

func (r *reviewsRepo) List(ctx context.Context, p repository.Page) ([]models.Review, error) {
	return r.collect(r.q.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at, id OFFSET $1 LIMIT $2`, p.Skip, p.Limit))
}

func (r *reviewsRepo) ListByFilm(ctx context.Context, filmID string, p repository.Page) ([]models.Review, error) {
	return r.collect(r.q.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE film_id=$1 ORDER BY created_at, id OFFSET $2 LIMIT $3`,
		filmID, p.Skip, p.Limit))
}

func (r *reviewsRepo) StatsForFilm(ctx context.Context, filmID string) (models.GradeStats, error) {
	var s models.GradeStats
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(grade),0), COUNT(*) FROM reviews WHERE film_id=$1`, filmID,
	).Scan(&s.Sum, &s.Count)
	return s, mapErr(err, "review")
}
