package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/theta/pkg/config"
	"github.com/angelmondragon/theta/pkg/security"
)

const tempPasswordLength = 16

// ProvisionInput describes a user created or updated from the command line.
type ProvisionInput struct {
	Email     string
	Password  string
	Activated bool
}

// ProvisionResult reports the stored user and, when one was generated, the temporary password.
type ProvisionResult struct {
	User         *User
	TempPassword string
	Created      bool
}

type provisionRepo interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// Provision creates or updates a user. An empty password generates a temporary one.
func Provision(ctx context.Context, repo provisionRepo, cfg config.PasswordConfig, in ProvisionInput) (*ProvisionResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}

	result := &ProvisionResult{}
	password := in.Password
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, err
		}
		password = generated
		result.TempPassword = generated
	}

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		user = &User{Email: email}
		result.Created = true
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user.PasswordHash = hash
	user.Activated = in.Activated

	if err := repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	result.User = user
	return result, nil
}
