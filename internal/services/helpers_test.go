package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/film-catalog/internal/events"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository/memory"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingSink) Dispatch(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store   *memory.Store
	sink    *recordingSink
	reviews *ReviewService
	films   *FilmService
	genres  *GenreService
}

func newFixture() *fixture {
	store := memory.New()
	sink := &recordingSink{}
	return &fixture{
		store:   store,
		sink:    sink,
		reviews: NewReviewService(store, sink, discardLogger()),
		films:   NewFilmService(store),
		genres:  NewGenreService(store),
	}
}

func (f *fixture) user(t *testing.T, email string, role models.Role) models.Identity {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "unused",
		Role:         role,
	})
	require.NoError(t, err)
	return identityOf(u)
}

func (f *fixture) film(t *testing.T, name string, genres ...string) models.FilmView {
	t.Helper()
	v, err := f.films.Create(context.Background(), FilmInput{Name: name, Year: 2000, Genres: genres})
	require.NoError(t, err)
	return v
}
