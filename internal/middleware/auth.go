package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baharkarakas/film-catalog/internal/api/httpx"
	"github.com/baharkarakas/film-catalog/internal/apperr"
	"github.com/baharkarakas/film-catalog/internal/models"
)

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (models.Identity, error)
}

// Authenticate requires "Authorization: Bearer <token>" and stores the resolved identity
// in the request context.
func Authenticate(res IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteAppError(w, r, apperr.Unauthenticated("not authenticated"))
				return
			}
			id, err := res.ResolveIdentity(r.Context(), token)
			if err != nil {
				httpx.WriteAppError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(ah[len("Bearer "):])
	return token, token != ""
}
