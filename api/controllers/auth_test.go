package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/theta/internal/auth"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
)

type stubAuthService struct {
	got  auth.LoginRequest
	resp *auth.LoginResponse
	err  error
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.got = req
	return s.resp, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"reader@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get(TokenHeader) != "access" {
		t.Fatalf("expected token header")
	}
	if svc.got.Email != "reader@example.com" {
		t.Fatalf("unexpected request forwarded %+v", svc.got)
	}
}

func TestAuthLoginValidation(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"bad"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginPropagatesServiceError(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeForbidden, "user is not activated")}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"reader@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
