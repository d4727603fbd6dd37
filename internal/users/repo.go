package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/angelmondragon/theta/pkg/redis"
)

// ErrNotFound is returned when no record exists for an email.
var ErrNotFound = errors.New("user not found")

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	UserKey(email string) string
}

// Repository persists users in Redis, one JSON document per email.
type Repository struct {
	store store
	now   func() time.Time
}

// NewRepository constructs a users repo bound to the provided Redis client.
func NewRepository(client *redisclient.Client) *Repository {
	return &Repository{store: client, now: time.Now}
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrNotFound
	}
	raw, err := r.store.Get(ctx, r.store.UserKey(email))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", email, err)
	}
	return &user, nil
}

// Save writes user, stamping timestamps. Users never expire.
func (r *Repository) Save(ctx context.Context, user *User) error {
	if user == nil {
		return errors.New("user is required")
	}
	user.Email = NormalizeEmail(user.Email)
	if user.Email == "" {
		return errors.New("email is required")
	}
	now := r.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return r.store.Set(ctx, r.store.UserKey(user.Email), string(payload), 0)
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	at = at.UTC()
	user.LastLoginAt = &at
	return r.Save(ctx, user)
}
