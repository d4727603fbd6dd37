package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/redis"
)

const (
	envHeader    = "X-Theta-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when Redis answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redisP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "redis not configured"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := redisP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
				WithDetails(map[string]string{"redis": "down"}))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready", "redis": "ok"})
	}
}
