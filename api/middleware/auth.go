package middleware

import (
	"net/http"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/api/validators"
	pkgAuth "github.com/angelmondragon/theta/pkg/auth"
	"github.com/angelmondragon/theta/pkg/auth/session"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

// Auth validates a bearer token, checks that its session is still live and seeds the
// request context with the caller's email and session id.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithEmail(r.Context(), claims.Email)
			ctx = WithSessionID(ctx, claims.ID)
			if logg != nil {
				ctx = logg.WithUserEmail(ctx, claims.Email)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
