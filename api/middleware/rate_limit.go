package middleware

import (
	"net/http"

	"github.com/go-chi/httprate"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

// RateLimit applies an in-process sliding window per client IP to the public API.
func RateLimit(cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
		}),
	)
}
