package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

// querier is the part of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repos struct {
	users     *usersRepo
	films     *filmsRepo
	genres    *genresRepo
	reviews   *reviewsRepo
	auditLogs *auditLogsRepo
}

func newRepos(q querier) repos {
	return repos{
		users:     &usersRepo{q},
		films:     &filmsRepo{q},
		genres:    &genresRepo{q},
		reviews:   &reviewsRepo{q},
		auditLogs: &auditLogsRepo{q},
	}
}

func (r repos) Users() repository.Users         { return r.users }
func (r repos) Films() repository.Films         { return r.films }
func (r repos) Genres() repository.Genres       { return r.genres }
func (r repos) Reviews() repository.Reviews     { return r.reviews }
func (r repos) AuditLogs() repository.AuditLogs { return r.auditLogs }

type Store struct {
	repos
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repos: newRepos(pool), pool: pool}
}

// WithTx runs fn in one read-committed transaction. Per-key serialization of review writes
// comes from the unique (film_id, user_id) index and row locks, so no retry loop is needed.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite})
	if err != nil {
		return apperr.Unavailable(err)
	}
	if err := fn(newRepos(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr(err, "transaction")
	}
	return nil
}
