package services

import (
	"context"
	"strings"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type FilmInput struct {
	Name        string
	Description string
	Year        int
	Genres      []string
}

// FilmPatch holds the fields to change; nil leaves a field as is.
// A non-nil Genres replaces the film's genre set, creating unknown names.
type FilmPatch struct {
	Name        *string
	Description *string
	Year        *int
	Genres      *[]string
}

func (p FilmPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Year == nil && p.Genres == nil
}

type FilmService struct {
	store   repository.Store
	ratings *RatingAggregator
}

func NewFilmService(store repository.Store) *FilmService {
	return &FilmService{store: store, ratings: NewRatingAggregator(store)}
}

func (s *FilmService) Create(ctx context.Context, in FilmInput) (models.FilmView, error) {
	f := models.Film{Name: strings.TrimSpace(in.Name), Description: in.Description, Year: in.Year}
	if f.Name == "" {
		return models.FilmView{}, apperr.Validation("filmname is required")
	}
	var v models.FilmView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		created, err := tx.Films().Create(ctx, f)
		if err != nil {
			return err
		}
		if err := syncGenres(ctx, tx, created.ID, in.Genres); err != nil {
			return err
		}
		v, err = filmViewOf(ctx, tx, created)
		return err
	})
	return v, err
}

func (s *FilmService) Get(ctx context.Context, id string) (models.FilmView, error) {
	return s.ratings.ComputeFilmView(ctx, id)
}

// List returns one page of film views and the total number of films.
func (s *FilmService) List(ctx context.Context, skip, limit int) ([]models.FilmView, int64, error) {
	var (
		views []models.FilmView
		total int64
	)
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		films, err := tx.Films().List(ctx, repository.NewPage(skip, limit))
		if err != nil {
			return err
		}
		if total, err = tx.Films().Count(ctx); err != nil {
			return err
		}
		views, err = filmViews(ctx, tx, films)
		return err
	})
	return views, total, err
}

func (s *FilmService) Search(ctx context.Context, q models.FilmSearch, skip, limit int) ([]models.FilmView, error) {
	q.Name = strings.TrimSpace(q.Name)
	q.Genre = strings.TrimSpace(q.Genre)
	var views []models.FilmView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		films, err := tx.Films().Search(ctx, q, repository.NewPage(skip, limit))
		if err != nil {
			return err
		}
		views, err = filmViews(ctx, tx, films)
		return err
	})
	return views, err
}

// Update applies patch and resyncs genres in the same transaction. An empty patch
// returns the current view.
func (s *FilmService) Update(ctx context.Context, id string, patch FilmPatch) (models.FilmView, error) {
	var v models.FilmView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		f, err := tx.Films().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.empty() {
			v, err = filmViewOf(ctx, tx, f)
			return err
		}
		if patch.Name != nil {
			f.Name = strings.TrimSpace(*patch.Name)
			if f.Name == "" {
				return apperr.Validation("filmname must not be empty")
			}
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Year != nil {
			f.Year = *patch.Year
		}
		if f, err = tx.Films().Update(ctx, f); err != nil {
			return err
		}
		if patch.Genres != nil {
			if err := syncGenres(ctx, tx, f.ID, *patch.Genres); err != nil {
				return err
			}
		}
		v, err = filmViewOf(ctx, tx, f)
		return err
	})
	return v, err
}

// Delete removes the film, its reviews and genre links, returning the view it had.
func (s *FilmService) Delete(ctx context.Context, id string) (models.FilmView, error) {
	var v models.FilmView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		if v, err = filmView(ctx, tx, id); err != nil {
			return err
		}
		_, err = tx.Films().Delete(ctx, id)
		return err
	})
	return v, err
}

// syncGenres replaces the film's genre links with names, creating missing genres.
func syncGenres(ctx context.Context, tx repository.Tx, filmID string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	ids := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		g, err := tx.Genres().GetOrCreate(ctx, n)
		if err != nil {
			return err
		}
		ids = append(ids, g.ID)
	}
	return tx.Films().SetGenres(ctx, filmID, ids)
}
