package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/auth"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Gender      *string
	DateOfBirth *time.Time
}

type UserService struct {
	store repository.Store
	now   func() time.Time
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store, now: time.Now}
}

// WithClock fixes the date used for the registration age check.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	c := *s
	c.now = now
	return &c
}

// Register creates a user with role "user". The caller must be at least
// MinRegistrationAge whole years old on the current date.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	u := models.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       models.NormalizeEmail(in.Email),
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
		Role:        models.RoleUser,
	}
	if u.Name == "" || u.Email == "" || in.Password == "" {
		return models.User{}, apperr.Validation("name, email and password are required")
	}
	if u.DateOfBirth == nil {
		return models.User{}, apperr.Validation("dateofbirth is required")
	}
	if models.AgeOn(*u.DateOfBirth, s.now()) < models.MinRegistrationAge {
		return models.User{}, apperr.Validation("you must be at least 13 years old to register")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Users().GetByEmail(ctx, u.Email); err == nil {
			return apperr.Conflict("email already registered")
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		created, err := tx.Users().Create(ctx, u)
		if errors.Is(err, apperr.ErrConflict) {
			return apperr.Conflict("email already registered")
		}
		u = created
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.store.Users().List(ctx, repository.NewPage(skip, limit))
}

// Me returns the full record of the authenticated caller.
func (s *UserService) Me(ctx context.Context, id models.Identity) (models.User, error) {
	return s.store.Users().GetByID(ctx, id.UserID)
}
