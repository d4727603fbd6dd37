package controllers

import (
	"net/http"

	"github.com/angelmondragon/theta/api/responses"
	"github.com/angelmondragon/theta/api/validators"
	"github.com/angelmondragon/theta/internal/auth"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
)

// TokenHeader mirrors the freshly minted access token for clients that read headers.
const TokenHeader = "X-Theta-Token"

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(TokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
