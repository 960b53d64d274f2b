package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type filmsRepo struct{ q querier }

const filmColumns = `f.id::text, f.name, f.description, f.year, f.created_at`

func scanFilm(row pgx.Row) (models.Film, error) {
	var f models.Film
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Year, &f.CreatedAt)
	return f, err
}

func (r *filmsRepo) collect(rows pgx.Rows, err error) ([]models.Film, error) {
	if err != nil {
		return nil, mapErr(err, "film")
	}
	defer rows.Close()
	out := []models.Film{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, mapErr(err, "film")
		}
		out = append(out, f)
	}
	return out, mapErr(rows.Err(), "film")
}

func (r *filmsRepo) Create(ctx context.Context, f models.Film) (models.Film, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	out, err := scanFilm(r.q.QueryRow(ctx,
		`INSERT INTO films AS f (id, name, description, year) VALUES($1,$2,$3,$4)
		 RETURNING `+filmColumns,
		f.ID, f.Name, f.Description, f.Year,
	))
	return out, mapErr(err, "film")
}

func (r *filmsRepo) GetByID(ctx context.Context, id string) (models.Film, error) {
	f, err := scanFilm(r.q.QueryRow(ctx, `SELECT `+filmColumns+` FROM films f WHERE f.id=$1`, id))
	return f, mapErr(err, "film")
}

func (r *filmsRepo) List(ctx context.Context, p repository.Page) ([]models.Film, error) {
	return r.collect(r.q.Query(ctx,
		`SELECT `+filmColumns+` FROM films f ORDER BY f.created_at, f.id OFFSET $1 LIMIT $2`, p.Skip, p.Limit))
}

func (r *filmsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM films`).Scan(&n)
	return n, mapErr(err, "film")
}

func (r *filmsRepo) Search(ctx context.Context, s models.FilmSearch, p repository.Page) ([]models.Film, error) {
	var (
		where []string
		args  []any
	)
	if s.Name != "" {
		args = append(args, s.Name)
		where = append(where, fmt.Sprintf("f.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if s.Genre != "" {
		args = append(args, s.Genre)
		where = append(where, fmt.Sprintf(`EXISTS (SELECT 1 FROM film_genres fg JOIN genres g ON g.id = fg.genre_id
			WHERE fg.film_id = f.id AND g.name = $%d)`, len(args)))
	}
	if s.Year != 0 {
		args = append(args, s.Year)
		where = append(where, fmt.Sprintf("f.year = $%d", len(args)))
	}

	q := `SELECT ` + filmColumns + ` FROM films f`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, p.Skip, p.Limit)
	q += fmt.Sprintf(` ORDER BY f.created_at, f.id OFFSET $%d LIMIT $%d`, len(args)-1, len(args))

	return r.collect(r.q.Query(ctx, q, args...))
}

func (r *filmsRepo) Update(ctx context.Context, f models.Film) (models.Film, error) {
	out, err := scanFilm(r.q.QueryRow(ctx,
		`UPDATE films AS f SET name=$2, description=$3, year=$4 WHERE f.id=$1
		 RETURNING `+filmColumns,
		f.ID, f.Name, f.Description, f.Year,
	))
	return out, mapErr(err, "film")
}

func (r *filmsRepo) Delete(ctx context.Context, id string) (models.Film, error) {
	f, err := scanFilm(r.q.QueryRow(ctx, `DELETE FROM films AS f WHERE f.id=$1 RETURNING `+filmColumns, id))
	return f, mapErr(err, "film")
}

func (r *filmsRepo) SetGenres(ctx context.Context, filmID string, genreIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM film_genres WHERE film_id=$1`, filmID); err != nil {
		return mapErr(err, "film")
	}
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO film_genres(film_id, genre_id)
		 SELECT $1::uuid, g::uuid FROM unnest($2::text[]) AS g
		 ON CONFLICT DO NOTHING`,
		filmID, genreIDs,
	)
	return mapErr(err, "genre")
}
