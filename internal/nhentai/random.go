package nhentai

import (
	"context"
	"math/rand/v2"

	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

// GalleryFetcher is the single-gallery lookup the randomizer draws against.
type GalleryFetcher interface {
	Fetch(ctx context.Context, galleryID int) (*Gallery, error)
}

// Randomizer picks a uniformly random gallery id and redraws on misses,
// up to a fixed number of retries.
type Randomizer struct {
	fetcher GalleryFetcher
	min     int
	max     int
	retries int
	draw    func(min, max int) int
	logg    *logger.Logger
}

func NewRandomizer(cfg config.NhentaiConfig, fetcher GalleryFetcher, logg *logger.Logger) *Randomizer {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Randomizer{
		fetcher: fetcher,
		min:     cfg.RandomMin,
		max:     cfg.RandomMax,
		retries: cfg.RandomRetries,
		draw:    uniform,
		logg:    logg,
	}
}

// Random returns a gallery for a random id. Only UpstreamNotFound triggers a redraw;
// every other error is returned as is.
func (r *Randomizer) Random(ctx context.Context) (*Gallery, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "random gallery cancelled")
		}
		id := r.draw(r.min, r.max)
		gallery, err := r.fetcher.Fetch(ctx, id)
		if err == nil {
			return gallery, nil
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeUpstreamNotFound) {
			return nil, err
		}
		r.logg.Debug(r.logg.WithFields(ctx, map[string]any{"gallery_id": id, "attempt": attempt}), "nhentai.random_miss")
		lastErr = err
	}
	return nil, lastErr
}

func uniform(min, max int) int {
	return min + rand.IntN(max-min+1)
}
