package repository

import (
	"context"

	"github.com/baharkarakas/film-catalog/internal/models"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// Page is an offset window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

// NewPage applies the default and upper bound to a caller-supplied window.
func NewPage(skip, limit int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: skip, Limit: limit}
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, p Page) ([]models.User, error)
}

type Films interface {
	Create(ctx context.Context, f models.Film) (models.Film, error)
	GetByID(ctx context.Context, id string) (models.Film, error)
	List(ctx context.Context, p Page) ([]models.Film, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, q models.FilmSearch, p Page) ([]models.Film, error)
	Update(ctx context.Context, f models.Film) (models.Film, error)
	// Delete removes the film together with its reviews and genre links.
	Delete(ctx context.Context, id string) (models.Film, error)
	// SetGenres replaces the film's genre links with exactly genreIDs.
	SetGenres(ctx context.Context, filmID string, genreIDs []string) error
}

type Genres interface {
	Create(ctx context.Context, name string) (models.Genre, error)
	// GetOrCreate returns the genre named name, inserting it when missing.
	GetOrCreate(ctx context.Context, name string) (models.Genre, error)
	GetByID(ctx context.Context, id string) (models.Genre, error)
	List(ctx context.Context, p Page) ([]models.Genre, error)
	Update(ctx context.Context, g models.Genre) (models.Genre, error)
	Delete(ctx context.Context, id string) (models.Genre, error)
	// NamesForFilm returns the distinct genre names linked to a film, sorted.
	NamesForFilm(ctx context.Context, filmID string) ([]string, error)
}

type Reviews interface {
	// Upsert inserts the review or, when (FilmID, UserID) already has one, updates it in place
	// keeping its id and created_at.
	Upsert(ctx context.Context, r models.Review) (models.Review, error)
	GetByID(ctx context.Context, id string) (models.Review, error)
	// GetForUpdate reads the review and holds it against concurrent writers until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (models.Review, error)
	Update(ctx context.Context, r models.Review) (models.Review, error)
	Delete(ctx context.Context, id string) (models.Review, error)
	List(ctx context.Context, p Page) ([]models.Review, error)
	ListByFilm(ctx context.Context, filmID string, p Page) ([]models.Review, error)
	StatsForFilm(ctx context.Context, filmID string) (models.GradeStats, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error)
}

// Tx is the set of repositories bound to one unit of work.
type Tx interface {
	Users() Users
	Films() Films
	Genres() Genres
	Reviews() Reviews
	AuditLogs() AuditLogs
}

// Store hands out repositories outside a transaction and runs closures inside one.
// A closure returning an error rolls back every write it made.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(Tx) error) error
}
