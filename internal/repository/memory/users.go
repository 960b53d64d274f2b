package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type usersRepo struct{ v *view }

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	st, release := r.v.acquire()
	defer release()

	for _, existing := range st.users {
		if existing.Email == u.Email {
			return models.User{}, apperr.Conflict("user already exists")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = r.v.now()
	st.users[u.ID] = u
	st.track(u.ID)
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	st, release := r.v.acquire()
	defer release()

	u, ok := st.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	st, release := r.v.acquire()
	defer release()

	for _, u := range st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (r *usersRepo) List(_ context.Context, p repository.Page) ([]models.User, error) {
	st, release := r.v.acquire()
	defer release()

	return window(sorted(st, st.users, func(u models.User) string { return u.ID }), p), nil
}
