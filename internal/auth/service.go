package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/theta/internal/users"
	pkgAuth "github.com/angelmondragon/theta/pkg/auth"
	"github.com/angelmondragon/theta/pkg/auth/session"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
	passCfg config.PasswordConfig
	logg    *logger.Logger
	now     func() time.Time
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	Save(ctx context.Context, user *users.User) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID, email string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		passCfg: params.PasswordConfig,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if security.NeedsRehash(user.PasswordHash, s.passCfg) {
		if hash, err := security.HashPassword(req.Password, s.passCfg); err == nil {
			user.PasswordHash = hash
		}
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		Email: user.Email,
		JTI:   accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID, user.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	s.logg.Info(s.logg.WithUserEmail(ctx, user.Email), "auth.login")
	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		User:         users.FromModel(user),
	}, nil
}

// authenticate checks the password before activation so inactive accounts
// only learn their state with valid credentials.
func (s *service) authenticate(ctx context.Context, email, password string) (*users.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.Activated {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user is not activated")
	}
	return user, nil
}
