package services

import (
	"context"
	"strings"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type GenreService struct {
	store repository.Store
}

func NewGenreService(store repository.Store) *GenreService {
	return &GenreService{store: store}
}

func (s *GenreService) Create(ctx context.Context, name string) (models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Genre{}, apperr.Validation("genrename is required")
	}
	var g models.Genre
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		g, err = tx.Genres().Create(ctx, name)
		return err
	})
	return g, err
}

func (s *GenreService) List(ctx context.Context, skip, limit int) ([]models.Genre, error) {
	return s.store.Genres().List(ctx, repository.NewPage(skip, limit))
}

func (s *GenreService) Update(ctx context.Context, id, name string) (models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Genre{}, apperr.Validation("genrename is required")
	}
	var g models.Genre
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		g, err = tx.Genres().Update(ctx, models.Genre{ID: id, Name: name})
		return err
	})
	return g, err
}

// Delete removes the genre and its film links; affected film views change on their next read.
func (s *GenreService) Delete(ctx context.Context, id string) (models.Genre, error) {
	var g models.Genre
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		g, err = tx.Genres().Delete(ctx, id)
		return err
	})
	return g, err
}
