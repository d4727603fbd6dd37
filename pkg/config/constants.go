package config

// envconfig resolves the explicit envconfig tags, the prefix only matters for untagged fields.
const EnvPrefix = "THETA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv               = "THETA_APP_ENV"
	EnvPort                 = "THETA_APP_PORT"
	EnvLogLevel             = "THETA_LOG_LEVEL"
	EnvRedisURL             = "THETA_REDIS_URL"
	EnvJWTSecret            = "THETA_JWT_SECRET"
	EnvJWTIssuer            = "THETA_JWT_ISSUER"
	EnvJWTExpMins           = "THETA_JWT_EXPIRATION_MINUTES"
	EnvCORSAllowedOrigins   = "THETA_CORS_ALLOWED_ORIGINS"
	EnvCacheInstagramTTL    = "THETA_CACHE_INSTAGRAM_TTL"
	EnvCacheGalleryTTL      = "THETA_CACHE_GALLERY_TTL"
	EnvInstagramHeaders     = "THETA_INSTAGRAM_HEADERS_FILE"
	EnvNhentaiRandomMin     = "THETA_NHENTAI_RANDOM_MIN"
	EnvNhentaiRandomMax     = "THETA_NHENTAI_RANDOM_MAX"
	EnvNhentaiRandomRetries = "THETA_NHENTAI_RANDOM_RETRIES"
)
