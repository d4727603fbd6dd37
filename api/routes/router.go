package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/theta/api/controllers"
	"github.com/angelmondragon/theta/api/middleware"
	"github.com/angelmondragon/theta/internal/auth"
	"github.com/angelmondragon/theta/internal/instagram"
	"github.com/angelmondragon/theta/internal/nhentai"
	"github.com/angelmondragon/theta/internal/users"
	"github.com/angelmondragon/theta/pkg/auth/session"
	"github.com/angelmondragon/theta/pkg/config"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/metrics"
	"github.com/angelmondragon/theta/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (session.Rotation, error)
	Revoke(context.Context, string) error
}

// redisStore is the Redis surface shared by health, rate limiting and the response cache.
type redisStore interface {
	redis.Pinger
	redis.CacheStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

type mediaFetcher interface {
	Fetch(ctx context.Context, mediaID string) (*instagram.Media, error)
}

type galleryRandomizer interface {
	Random(ctx context.Context) (*nhentai.Gallery, error)
}

// Services groups the domain handlers the router exposes.
type Services struct {
	Auth      auth.Service
	Sessions  sessionManager
	Users     userLookup
	Instagram mediaFetcher
	Galleries nhentai.GalleryFetcher
	Random    galleryRandomizer
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient redisStore,
	gatherer prometheus.Gatherer,
	cacheMetrics *metrics.CacheMetrics,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.ProcessTime(),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/favicon.ico", controllers.Favicon(cfg.Static, logg))

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	instagramCache := middleware.CacheRule{Scope: "instagram", Param: "mediaID", TTL: cfg.Cache.InstagramTTL}
	galleryCache := middleware.CacheRule{Scope: "nhentai", Param: "galleryID", TTL: cfg.Cache.GalleryTTL}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svc.Sessions, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(svc.Sessions, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, svc.Sessions, logg),
				middleware.RequireActiveUser(svc.Users, logg),
			)

			r.Route("/instagram", func(r chi.Router) {
				r.Get("/", controllers.InstagramByURL(svc.Instagram, logg))
				r.With(middleware.ResponseCache(instagramCache, redisClient, cacheMetrics, logg)).
					Get("/{mediaID}", controllers.InstagramMedia(svc.Instagram, logg))
			})

			r.Route("/nhentai", func(r chi.Router) {
				r.Get("/random", controllers.NhentaiRandom(svc.Random, logg))
				r.With(middleware.ResponseCache(galleryCache, redisClient, cacheMetrics, logg)).
					Get("/{galleryID}", controllers.NhentaiGallery(svc.Galleries, logg))
			})
		})
	})

	return r
}
