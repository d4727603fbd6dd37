package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/api/validators"
	"github.com/angelmondragon/theta/internal/instagram"
	"github.com/angelmondragon/theta/pkg/logger"
)

type mediaFetcher interface {
	Fetch(ctx context.Context, mediaID string) (*instagram.Media, error)
}

// InstagramMedia returns the normalized record for a media shortcode.
func InstagramMedia(fetcher mediaFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := fetcher.Fetch(r.Context(), validators.PathString(r, "mediaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, media)
	}
}

// InstagramByURL extracts the shortcode from a post URL passed as ?url= and fetches it.
func InstagramByURL(fetcher mediaFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.RequireQueryString(r, "url")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shortcode, err := instagram.ShortcodeFromURL(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		media, err := fetcher.Fetch(r.Context(), shortcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, media)
	}
}
