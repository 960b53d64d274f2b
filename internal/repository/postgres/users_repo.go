package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type usersRepo struct{ q querier }

const userColumns = `id::text, email, name, gender, date_of_birth, password_hash, role, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Gender, &u.DateOfBirth, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	out, err := scanUser(r.q.QueryRow(ctx,
		`INSERT INTO users(id, email, name, gender, date_of_birth, password_hash, role)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userColumns,
		u.ID, u.Email, u.Name, u.Gender, u.DateOfBirth, u.PasswordHash, u.Role,
	))
	return out, mapErr(err, "user")
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	return u, mapErr(err, "user")
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
	return u, mapErr(err, "user")
}

func (r *usersRepo) List(ctx context.Context, p repository.Page) ([]models.User, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id OFFSET $1 LIMIT $2`, p.Skip, p.Limit)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err, "user")
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err(), "user")
}
