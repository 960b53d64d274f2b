package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/auth"
	"github.com/baharkarakas/film-catalog/internal/config"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository/memory"
)

func newGate(t *testing.T) (*AccessGate, *auth.TokenManager, *memory.Store) {
	t.Helper()
	store := memory.New()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	_, err = store.Users().Create(context.Background(), models.User{
		Email: "ann@example.com", Name: "Ann", PasswordHash: hash, Role: models.RoleFilmAdmin,
	})
	require.NoError(t, err)
	tm := auth.NewTokenManager(config.AuthConfig{Secret: "test-secret", Issuer: "film-catalog", TTL: 30 * time.Minute})
	return NewAccessGate(store.Users(), tm, discardLogger()), tm, store
}

func TestAuthenticate(t *testing.T) {
	g, _, _ := newGate(t)
	ctx := context.Background()

	id, err := g.Authenticate(ctx, " ANN@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleFilmAdmin, id.Role)

	_, wrongPw := g.Authenticate(ctx, "ann@example.com", "wrong")
	_, unknown := g.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, wrongPw, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, unknown, apperr.ErrUnauthenticated)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestIssueAndResolve(t *testing.T) {
	g, _, _ := newGate(t)
	ctx := context.Background()

	tok, err := g.IssueToken(ctx, "ann@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	id, err := g.ResolveIdentity(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.True(t, id.IsFilmAdmin())
}

func TestResolveIdentity_Expired(t *testing.T) {
	g, tm, store := newGate(t)
	old, _, err := tm.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue("ann@example.com")
	require.NoError(t, err)

	_, err = NewAccessGate(store.Users(), tm, discardLogger()).ResolveIdentity(context.Background(), old)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = g.ResolveIdentity(context.Background(), old)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestResolveIdentity_UnknownUser(t *testing.T) {
	g, tm, _ := newGate(t)
	tok, _, err := tm.Issue("ghost@example.com")
	require.NoError(t, err)

	_, err = g.ResolveIdentity(context.Background(), tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestResolveIdentity_Garbage(t *testing.T) {
	g, _, _ := newGate(t)
	_, err := g.ResolveIdentity(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	admin := models.Identity{UserID: "1", Role: models.RoleFilmAdmin}
	user := models.Identity{UserID: "2", Role: models.RoleUser}

	got, err := RequireRole(admin, models.RoleFilmAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	_, err = RequireRole(user, models.RoleFilmAdmin)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
