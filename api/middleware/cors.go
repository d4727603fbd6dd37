package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/theta/pkg/config"
)

// CORS returns middleware that applies the configured origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, processTimeHeader, cacheHeader, "X-Theta-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
