package validators

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
)

const maxParamLen = 2048

// RequireQueryString returns the trimmed query parameter or a validation error when absent.
func RequireQueryString(r *http.Request, key string) (string, error) {
	value := SanitizeString(r.URL.Query().Get(key), maxParamLen)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParsePathInt reads a positive integer route parameter. Non-numeric values are reported
// as invalid identifiers.
func ParsePathInt(r *http.Request, key string) (int, error) {
	raw := SanitizeString(chi.URLParam(r, key), maxParamLen)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidIdentifier, key+" must be a positive integer").WithDetails(map[string]any{"field": key, "value": raw})
	}
	return value, nil
}

// PathString returns the trimmed route parameter.
func PathString(r *http.Request, key string) string {
	return SanitizeString(chi.URLParam(r, key), maxParamLen)
}
