package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/theta/pkg/config"
	redisclient "github.com/angelmondragon/theta/pkg/redis"
	"github.com/google/uuid"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// record is the JSON document stored per access id.
type record struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

// Rotation is the result of a successful refresh.
type Rotation struct {
	AccessID     string
	RefreshToken string
	Email        string
}

// Manager handles refresh token creation, storage, and rotation.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, ttl: ttl}, nil
}

// Generate creates a refresh token bound to accessID and email and stores it in Redis.
func (m *Manager) Generate(ctx context.Context, accessID, email string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("email is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.put(ctx, accessID, record{Email: email, RefreshToken: token}); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate validates the provided refresh token, invalidates the prior session, and issues a new access/refresh pair.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Rotation, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Rotation{}, ErrInvalidRefreshToken
	}

	key := m.store.AccessSessionKey(oldAccessID)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if redisclient.IsNil(err) {
			return Rotation{}, ErrInvalidRefreshToken
		}
		return Rotation{}, err
	}

	var stored record
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Rotation{}, ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(stored.RefreshToken), []byte(provided)) != 1 {
		return Rotation{}, ErrInvalidRefreshToken
	}

	next := Rotation{AccessID: NewAccessID(), Email: stored.Email}
	if next.RefreshToken, err = generateRefreshToken(); err != nil {
		return Rotation{}, err
	}
	if err := m.put(ctx, next.AccessID, record{Email: next.Email, RefreshToken: next.RefreshToken}); err != nil {
		return Rotation{}, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Rotation{}, err
	}
	return next, nil
}

// Revoke deletes the refresh mapping tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	return m.store.Exists(ctx, m.store.AccessSessionKey(accessID))
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *Manager) put(ctx context.Context, accessID string, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl)
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
