package validators

import (
	"errors"
	"net/http"
	"strings"
)

var ErrMissingBearer = errors.New("missing bearer token")

// BearerToken extracts the token from an Authorization header. A bare token without the
// scheme is accepted.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", ErrMissingBearer
	}
	token := raw
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}
