package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type genresRepo struct{ q querier }

func scanGenre(row pgx.Row) (models.Genre, error) {
	var g models.Genre
	err := row.Scan(&g.ID, &g.Name)
	return g, err
}

func (r *genresRepo) Create(ctx context.Context, name string) (models.Genre, error) {
	g, err := scanGenre(r.q.QueryRow(ctx,
		`INSERT INTO genres(id, name) VALUES($1,$2) RETURNING id::text, name`, uuid.NewString(), name))
	return g, mapErr(err, "genre")
}

func (r *genresRepo) GetOrCreate(ctx context.Context, name string) (models.Genre, error) {
	// DO UPDATE so RETURNING yields the existing row on conflict
	g, err := scanGenre(r.q.QueryRow(ctx,
		`INSERT INTO genres(id, name) VALUES($1,$2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id::text, name`, uuid.NewString(), name))
	return g, mapErr(err, "genre")
}

func (r *genresRepo) GetByID(ctx context.Context, id string) (models.Genre, error) {
	g, err := scanGenre(r.q.QueryRow(ctx, `SELECT id::text, name FROM genres WHERE id=$1`, id))
	return g, mapErr(err, "genre")
}

func (r *genresRepo) List(ctx context.Context, p repository.Page) ([]models.Genre, error) {
	rows, err := r.q.Query(ctx, `SELECT id::text, name FROM genres ORDER BY name OFFSET $1 LIMIT $2`, p.Skip, p.Limit)
	if err != nil {
		return nil, mapErr(err, "genre")
	}
	defer rows.Close()
	out := []models.Genre{}
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, mapErr(err, "genre")
		}
		out = append(out, g)
	}
	return out, mapErr(rows.Err(), "genre")
}

func (r *genresRepo) Update(ctx context.Context, g models.Genre) (models.Genre, error) {
	out, err := scanGenre(r.q.QueryRow(ctx,
		`UPDATE genres SET name=$2 WHERE id=$1 RETURNING id::text, name`, g.ID, g.Name))
	return out, mapErr(err, "genre")
}

func (r *genresRepo) Delete(ctx context.Context, id string) (models.Genre, error) {
	g, err := scanGenre(r.q.QueryRow(ctx, `DELETE FROM genres WHERE id=$1 RETURNING id::text, name`, id))
	return g, mapErr(err, "genre")
}

func (r *genresRepo) NamesForFilm(ctx context.Context, filmID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT g.name FROM genres g
		 JOIN film_genres fg ON fg.genre_id = g.id
		 WHERE fg.film_id = $1
		 ORDER BY g.name`, filmID)
	if err != nil {
		return nil, mapErr(err, "film")
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapErr(err, "film")
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
