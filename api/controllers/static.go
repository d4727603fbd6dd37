package controllers

import (
	"net/http"
	"os"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

// Favicon serves the configured icon file.
func Favicon(cfg config.StaticConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(cfg.FaviconPath); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "favicon not found"))
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeFile(w, r, cfg.FaviconPath)
	}
}
