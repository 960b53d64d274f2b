package services

import (
	"context"

	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

// RatingAggregator derives film views from the current review and genre rows.
// Nothing it returns is cached; every call aggregates afresh.
type RatingAggregator struct {
	store repository.Store
}

func NewRatingAggregator(store repository.Store) *RatingAggregator {
	return &RatingAggregator{store: store}
}

// ComputeFilmView reads the film, its genres and its grade aggregate in one transaction.
func (a *RatingAggregator) ComputeFilmView(ctx context.Context, filmID string) (models.FilmView, error) {
	var v models.FilmView
	err := a.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		v, err = filmView(ctx, tx, filmID)
		return err
	})
	return v, err
}

func filmView(ctx context.Context, tx repository.Tx, filmID string) (models.FilmView, error) {
	f, err := tx.Films().GetByID(ctx, filmID)
	if err != nil {
		return models.FilmView{}, err
	}
	return filmViewOf(ctx, tx, f)
}

func filmViewOf(ctx context.Context, tx repository.Tx, f models.Film) (models.FilmView, error) {
	genres, err := tx.Genres().NamesForFilm(ctx, f.ID)
	if err != nil {
		return models.FilmView{}, err
	}
	stats, err := tx.Reviews().StatsForFilm(ctx, f.ID)
	if err != nil {
		return models.FilmView{}, err
	}
	return models.NewFilmView(f, genres, stats), nil
}

func filmViews(ctx context.Context, tx repository.Tx, films []models.Film) ([]models.FilmView, error) {
	out := make([]models.FilmView, 0, len(films))
	for _, f := range films {
		v, err := filmViewOf(ctx, tx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
