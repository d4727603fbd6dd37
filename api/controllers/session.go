package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/api/validators"
	pkgAuth "github.com/angelmondragon/theta/pkg/auth"
	"github.com/angelmondragon/theta/pkg/auth/session"
	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

type sessionTokenRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// sessionClaims reads the bearer token without enforcing expiry so an expired access
// token can still be refreshed or logged out.
func sessionClaims(r *http.Request, cfg config.JWTConfig) (*pkgAuth.AccessTokenClaims, error) {
	token, err := validators.BearerToken(r)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims, nil
}

// AuthLogout revokes the refresh mapping tied to the presented access token.
func AuthLogout(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		claims, err := sessionClaims(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := manager.Revoke(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthRefresh rotates the refresh token and issues a new access token.
func AuthRefresh(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := sessionClaims(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rotation, err := manager.Rotate(r.Context(), claims.ID, body.RefreshToken)
		if err != nil {
			if errors.Is(err, session.ErrInvalidRefreshToken) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session"))
			return
		}

		email := rotation.Email
		if email == "" {
			email = claims.Email
		}
		accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			Email: email,
			JTI:   rotation.AccessID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt"))
			return
		}

		w.Header().Set(TokenHeader, accessToken)
		responses.WriteSuccess(w, refreshResponse{
			AccessToken:  accessToken,
			RefreshToken: rotation.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    cfg.ExpirationMinutes * 60,
		})
	}
}
