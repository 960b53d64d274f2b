package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/film-catalog/internal/apperr"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeInvalidText         = "22P02"
)

// mapErr translates driver errors into apperr kinds. entity names the row the query targeted.
func mapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return apperr.NotFound(referencedEntity(pgErr.ConstraintName, entity) + " not found")
		case codeUniqueViolation:
			return apperr.Conflict(entity + " already exists")
		case codeInvalidText:
			// malformed uuid in a lookup
			return apperr.NotFound(entity + " not found")
		}
	}
	return apperr.Unavailable(err)
}

// referencedEntity guesses the missing parent from a default "<table>_<column>_fkey" name.
func referencedEntity(constraint, fallback string) string {
	switch {
	case strings.Contains(constraint, "film_id"):
		return "film"
	case strings.Contains(constraint, "user_id"):
		return "user"
	case strings.Contains(constraint, "genre_id"):
		return "genre"
	}
	return fallback
}
