package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/internal/users"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// RequireActiveUser loads the authenticated user. Unknown users are rejected with 401 and
// deactivated users with 403. It must run after Auth.
func RequireActiveUser(lookup userLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			user, err := lookup.FindByEmail(r.Context(), email)
			switch {
			case errors.Is(err, users.ErrNotFound):
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found"))
				return
			case err != nil:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
				return
			case !user.Activated:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "user is not activated"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
