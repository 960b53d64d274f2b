// Package memory is an in-process implementation of the repository interfaces.
// Every transaction works on a private copy of the data and swaps it in on success,
// so transactions are fully serialized and a failed closure leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type state struct {
	seq        int64
	order      map[string]int64 // row id -> insertion sequence
	users      map[string]models.User
	films      map[string]models.Film
	genres     map[string]models.Genre
	filmGenres map[string]map[string]struct{} // film id -> genre ids
	reviews    map[string]models.Review
	audit      []models.AuditLog
}

func newState() *state {
	return &state{
		order:      map[string]int64{},
		users:      map[string]models.User{},
		films:      map[string]models.Film{},
		genres:     map[string]models.Genre{},
		filmGenres: map[string]map[string]struct{}{},
		reviews:    map[string]models.Review{},
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:        s.seq,
		order:      make(map[string]int64, len(s.order)),
		users:      make(map[string]models.User, len(s.users)),
		films:      make(map[string]models.Film, len(s.films)),
		genres:     make(map[string]models.Genre, len(s.genres)),
		filmGenres: make(map[string]map[string]struct{}, len(s.filmGenres)),
		reviews:    make(map[string]models.Review, len(s.reviews)),
		audit:      append([]models.AuditLog(nil), s.audit...),
	}
	for k, v := range s.order {
		c.order[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.films {
		c.films[k] = v
	}
	for k, v := range s.genres {
		c.genres[k] = v
	}
	for k, set := range s.filmGenres {
		cs := make(map[string]struct{}, len(set))
		for g := range set {
			cs[g] = struct{}{}
		}
		c.filmGenres[k] = cs
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	return c
}

func (s *state) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

// sorted orders rows by insertion sequence.
func sorted[T any](s *state, rows map[string]T, id func(T) string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return s.order[id(out[i])] < s.order[id(out[j])] })
	return out
}

func window[T any](rows []T, p repository.Page) []T {
	if p.Skip >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if p.Limit > 0 && p.Skip+p.Limit < end {
		end = p.Skip + p.Limit
	}
	return append([]T{}, rows[p.Skip:end]...)
}

// view hands a repository the state it should operate on plus the matching release func.
type view struct {
	acquire func() (*state, func())
	now     func() time.Time
}

type repos struct {
	users     *usersRepo
	films     *filmsRepo
	genres    *genresRepo
	reviews   *reviewsRepo
	auditLogs *auditLogsRepo
}

func newRepos(v *view) repos {
	return repos{
		users:     &usersRepo{v},
		films:     &filmsRepo{v},
		genres:    &genresRepo{v},
		reviews:   &reviewsRepo{v},
		auditLogs: &auditLogsRepo{v},
	}
}

func (r repos) Users() repository.Users         { return r.users }
func (r repos) Films() repository.Films         { return r.films }
func (r repos) Genres() repository.Genres       { return r.genres }
func (r repos) Reviews() repository.Reviews     { return r.reviews }
func (r repos) AuditLogs() repository.AuditLogs { return r.auditLogs }

type Store struct {
	repos
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	s.repos = newRepos(&view{
		acquire: func() (*state, func()) {
			s.mu.Lock()
			return s.st, s.mu.Unlock
		},
		now: s.now,
	})
	return s
}

// WithTx must not be called from inside fn; repositories obtained from the Store itself
// would block for the same reason.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return apperr.Unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := newRepos(&view{
		acquire: func() (*state, func()) { return work, func() {} },
		now:     s.now,
	})
	if err := fn(tx); err != nil {
		return err
	}
	s.st = work
	return nil
}
