package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/api/validators"
	"github.com/angelmondragon/theta/internal/nhentai"
	"github.com/angelmondragon/theta/pkg/logger"
)

type galleryRandomizer interface {
	Random(ctx context.Context) (*nhentai.Gallery, error)
}

// NhentaiGallery returns the normalized gallery for a numeric id.
func NhentaiGallery(fetcher nhentai.GalleryFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "galleryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gallery, err := fetcher.Fetch(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gallery)
	}
}

// NhentaiRandom returns a gallery drawn from the configured id range.
func NhentaiRandom(randomizer galleryRandomizer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gallery, err := randomizer.Random(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gallery)
	}
}
