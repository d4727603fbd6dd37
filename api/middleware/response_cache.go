package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/metrics"
	pkgredis "github.com/angelmondragon/theta/pkg/redis"
)

const (
	cacheHeader = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

// CacheRule binds a route to a cache scope. The entry is keyed by the value of the
// route parameter Param; a zero TTL keeps entries until Redis evicts them.
type CacheRule struct {
	Scope string
	Param string
	TTL   time.Duration
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
}

// ResponseCache serves successful responses from Redis. Only 200 responses are stored.
// Cache failures are logged and the request falls through to the handler.
func ResponseCache(rule CacheRule, store pkgredis.CacheStore, m *metrics.CacheMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, rule.Param)
			if id == "" || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := store.CacheKey(rule.Scope, id)

			stored, err := store.Get(ctx, key)
			switch {
			case err == nil:
				cached, decodeErr := decodeCached(stored)
				if decodeErr == nil {
					m.IncHit(rule.Scope)
					writeCached(w, cached)
					return
				}
				m.IncError(rule.Scope, "decode")
				logCacheError(ctx, logg, rule.Scope, "cache.decode_failed", decodeErr)
			case pkgredis.IsNil(err):
			default:
				m.IncError(rule.Scope, "get")
				logCacheError(ctx, logg, rule.Scope, "cache.get_failed", err)
			}
			m.IncMiss(rule.Scope)

			w.Header().Set(cacheHeader, cacheMiss)
			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}
			payload, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.String(),
			})
			if err != nil {
				logCacheError(ctx, logg, rule.Scope, "cache.encode_failed", err)
				return
			}
			if err := store.Set(ctx, key, string(payload), rule.TTL); err != nil {
				m.IncError(rule.Scope, "set")
				logCacheError(ctx, logg, rule.Scope, "cache.set_failed", err)
			}
		})
	}
}

func decodeCached(payload string) (*cachedResponse, error) {
	var cached cachedResponse
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func writeCached(w http.ResponseWriter, cached *cachedResponse) {
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(cacheHeader, cacheHit)
	w.WriteHeader(cached.Status)
	_, _ = w.Write([]byte(cached.Body))
}

func logCacheError(ctx context.Context, logg *logger.Logger, scope, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "cache_scope", scope), msg, err)
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
