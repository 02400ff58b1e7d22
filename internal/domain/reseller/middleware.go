package reseller

import (
	"context"
	"net/http"

	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
)

type contextKey string

const accountKey contextKey = "reseller_account"

// APIKeyAuth authenticates requests by the X-API-Key header and puts
// the key owner on the context as the request principal.
func APIKeyAuth(users user.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				response.Unauthorized(w, "X-API-Key header required")
				return
			}

			u, err := users.GetByAPIKey(r.Context(), key)
			if err != nil || !u.HasAPIAccess() {
				response.Unauthorized(w, "Invalid API key")
				return
			}

			ctx := middleware.WithPrincipal(r.Context(), u.ID, string(u.Role))
			ctx = context.WithValue(ctx, accountKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Account returns the authenticated key owner set by APIKeyAuth
func Account(ctx context.Context) *user.User {
	u, _ := ctx.Value(accountKey).(*user.User)
	return u
}
