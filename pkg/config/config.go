package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Cache         CacheConfig
	Upstream      UpstreamConfig
	Instagram     InstagramConfig
	Nhentai       NhentaiConfig
	Static        StaticConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Nhentai.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THETA_APP_ENV" default:"dev"`
	Port         string `envconfig:"THETA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"THETA_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"THETA_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"THETA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"THETA_REDIS_URL"`
	Address      string        `envconfig:"THETA_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"THETA_REDIS_PASSWORD"`
	DB           int           `envconfig:"THETA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THETA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THETA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THETA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THETA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THETA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"THETA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"THETA_JWT_ISSUER" default:"theta"`
	ExpirationMinutes      int    `envconfig:"THETA_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"THETA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"THETA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"THETA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"THETA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"THETA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"THETA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"THETA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"THETA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"THETA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type RateLimitConfig struct {
	Requests int           `envconfig:"THETA_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"THETA_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"THETA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CacheConfig struct {
	InstagramTTL time.Duration `envconfig:"THETA_CACHE_INSTAGRAM_TTL" default:"24h"`
	// Zero keeps gallery entries until evicted by Redis.
	GalleryTTL time.Duration `envconfig:"THETA_CACHE_GALLERY_TTL" default:"0s"`
}

type UpstreamConfig struct {
	Timeout             time.Duration `envconfig:"THETA_UPSTREAM_TIMEOUT" default:"15s"`
	BreakerMinRequests  uint32        `envconfig:"THETA_UPSTREAM_BREAKER_MIN_REQUESTS" default:"10"`
	BreakerFailureRatio float64       `envconfig:"THETA_UPSTREAM_BREAKER_FAILURE_RATIO" default:"0.6"`
	BreakerInterval     time.Duration `envconfig:"THETA_UPSTREAM_BREAKER_INTERVAL" default:"1m"`
	BreakerOpenTimeout  time.Duration `envconfig:"THETA_UPSTREAM_BREAKER_OPEN_TIMEOUT" default:"2m"`
}

type InstagramConfig struct {
	APIURL      string `envconfig:"THETA_INSTAGRAM_API_URL" default:"https://www.instagram.com/graphql/query"`
	HeadersFile string `envconfig:"THETA_INSTAGRAM_HEADERS_FILE" default:"config/headers.txt"`
	CookiesFile string `envconfig:"THETA_INSTAGRAM_COOKIES_FILE" default:"config/cookies.txt"`
	PayloadFile string `envconfig:"THETA_INSTAGRAM_PAYLOAD_FILE" default:"config/payload.txt"`
}

type NhentaiConfig struct {
	BaseURL       string `envconfig:"THETA_NHENTAI_BASE_URL" default:"https://nhentai.net"`
	ImageBaseURL  string `envconfig:"THETA_NHENTAI_IMAGE_BASE_URL" default:"https://i.nhentai.net"`
	ThumbBaseURL  string `envconfig:"THETA_NHENTAI_THUMB_BASE_URL" default:"https://t.nhentai.net"`
	RandomMin     int    `envconfig:"THETA_NHENTAI_RANDOM_MIN" default:"1"`
	RandomMax     int    `envconfig:"THETA_NHENTAI_RANDOM_MAX" default:"522723"`
	RandomRetries int    `envconfig:"THETA_NHENTAI_RANDOM_RETRIES" default:"1"`
}

func (n NhentaiConfig) validate() error {
	if n.RandomMin < 1 || n.RandomMax < n.RandomMin {
		return fmt.Errorf("%s/%s must describe a non-empty positive range", EnvNhentaiRandomMin, EnvNhentaiRandomMax)
	}
	if n.RandomRetries < 0 {
		return fmt.Errorf("%s must not be negative", EnvNhentaiRandomRetries)
	}
	return nil
}

type StaticConfig struct {
	FaviconPath string `envconfig:"THETA_STATIC_FAVICON_PATH" default:"static/favicon.ico"`
}
