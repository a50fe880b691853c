package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/auth"
	"go-movie-api/internal/model"
)

type contextKey string

const identityContextKey contextKey = "auth_identity"

// Guard rejects requests the configured strategy cannot authenticate.
type Guard struct {
	strategy auth.Strategy
}

func NewGuard(strategy auth.Strategy) *Guard {
	return &Guard{strategy: strategy}
}

func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.strategy.Authenticate(r)
		if err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				slog.Error("authentication store failure", "strategy", g.strategy.Name(), "error", err)
				writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable")
				return
			}

			slog.Debug("authentication rejected", "strategy", g.strategy.Name(), "reason", err.Error())
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
	})
}

// RequireSelf allows the request only when the authenticated user is the one
// named by the route parameter param.
func RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
				return
			}

			if err := auth.AuthorizeSelf(user, chi.URLParam(r, param)); err != nil {
				slog.Debug("self-only route refused", "error", err)
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Permission denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, identityContextKey, user)
}

func IdentityFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(identityContextKey).(model.User)
	return user, ok
}
