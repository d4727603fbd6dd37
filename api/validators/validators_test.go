package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	var dest loginBody
	err := DecodeJSONBody(httptest.NewRecorder(), req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["email"] != "must be a valid email" || details["password"] != "is required" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x","extra":1}`))
	var dest loginBody
	if err := DecodeJSONBody(httptest.NewRecorder(), req, &dest); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePathInt(t *testing.T) {
	cases := map[string]bool{"177013": true, "0": false, "-3": false, "abc": false}
	for raw, ok := range cases {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("galleryID", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		value, err := ParsePathInt(req, "galleryID")
		if ok && (err != nil || value != 177013) {
			t.Fatalf("%q: unexpected result %d %v", raw, value, err)
		}
		if !ok && !pkgerrors.HasCode(err, pkgerrors.CodeInvalidIdentifier) {
			t.Fatalf("%q: expected invalid identifier, got %v", raw, err)
		}
	}
}

func TestRequireQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?url=%20https://instagram.com/p/abc%20", nil)
	value, err := RequireQueryString(req, "url")
	if err != nil || value != "https://instagram.com/p/abc" {
		t.Fatalf("unexpected value %q err=%v", value, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := RequireQueryString(req, "url"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := BearerToken(req); err != ErrMissingBearer {
		t.Fatalf("expected missing bearer, got %v", err)
	}
	req.Header.Set("Authorization", "Bearer abc.def")
	if token, err := BearerToken(req); err != nil || token != "abc.def" {
		t.Fatalf("unexpected token %q err=%v", token, err)
	}
	req.Header.Set("Authorization", "raw-token")
	if token, _ := BearerToken(req); token != "raw-token" {
		t.Fatalf("expected raw token passthrough, got %q", token)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  abcdef  ", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestDecodeJSONBodyRequiresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dest loginBody
	err := DecodeJSONBody(httptest.NewRecorder(), req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "request body is required" {
		t.Fatalf("expected missing body error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsTrailingDocuments(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x"} {}`))
	var dest loginBody
	if err := DecodeJSONBody(httptest.NewRecorder(), req, &dest); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeStringDropsControlCharacters(t *testing.T) {
	if got := SanitizeString("ab\x00c\n", 0); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
