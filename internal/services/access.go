package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/auth"
	"github.com/baharkarakas/film-catalog/internal/metrics"
	"github.com/baharkarakas/film-catalog/internal/models"
	"github.com/baharkarakas/film-catalog/internal/repository"
)

const (
	msgBadCredentials = "incorrect username or password"
	msgBadToken       = "could not validate credentials"
	msgForbidden      = "not enough permissions"
)

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// AccessGate turns credentials and bearer tokens into identities.
type AccessGate struct {
	users  repository.Users
	tokens *auth.TokenManager
	log    *slog.Logger
}

func NewAccessGate(users repository.Users, tokens *auth.TokenManager, log *slog.Logger) *AccessGate {
	return &AccessGate{users: users, tokens: tokens, log: log}
}

// Authenticate checks email and password. Unknown email and wrong password fail identically.
func (g *AccessGate) Authenticate(ctx context.Context, email, password string) (models.Identity, error) {
	u, err := g.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return models.Identity{}, err
		}
		auth.BurnCompare(password)
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		return models.Identity{}, apperr.Unauthenticated(msgBadCredentials)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		return models.Identity{}, apperr.Unauthenticated(msgBadCredentials)
	}
	return identityOf(u), nil
}

// IssueToken authenticates and returns a bearer token for the user's email.
func (g *AccessGate) IssueToken(ctx context.Context, email, password string) (Token, error) {
	id, err := g.Authenticate(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	tok, exp, err := g.tokens.Issue(id.Email)
	if err != nil {
		return Token{}, err
	}
	g.log.Debug("token issued", "user_id", id.UserID)
	return Token{AccessToken: tok, TokenType: "bearer", ExpiresAt: exp}, nil
}

// ResolveIdentity validates the token and loads the user it names.
func (g *AccessGate) ResolveIdentity(ctx context.Context, token string) (models.Identity, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = "expired"
		}
		metrics.AuthFailures.WithLabelValues(reason).Inc()
		return models.Identity{}, apperr.Unauthenticated(msgBadToken)
	}
	u, err := g.users.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.AuthFailures.WithLabelValues("unknown_user").Inc()
			return models.Identity{}, apperr.Unauthenticated(msgBadToken)
		}
		return models.Identity{}, err
	}
	return identityOf(u), nil
}

// RequireRole passes id through when it holds role.
func RequireRole(id models.Identity, role models.Role) (models.Identity, error) {
	if id.Role != role {
		metrics.AuthFailures.WithLabelValues("forbidden").Inc()
		return models.Identity{}, apperr.Forbidden(msgForbidden)
	}
	return id, nil
}

func identityOf(u models.User) models.Identity {
	return models.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
