package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/theta/internal/instagram"
	"github.com/angelmondragon/theta/internal/nhentai"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
)

type stubMediaFetcher struct {
	got string
	err error
}

func (s *stubMediaFetcher) Fetch(ctx context.Context, mediaID string) (*instagram.Media, error) {
	s.got = mediaID
	if s.err != nil {
		return nil, s.err
	}
	return &instagram.Media{ID: mediaID, Source: instagram.SourceName, Attachments: []string{}, Tags: []string{}}, nil
}

type stubGalleryFetcher struct {
	got int
	err error
}

func (s *stubGalleryFetcher) Fetch(ctx context.Context, galleryID int) (*nhentai.Gallery, error) {
	s.got = galleryID
	if s.err != nil {
		return nil, s.err
	}
	return &nhentai.Gallery{ID: int64(galleryID)}, nil
}

func (s *stubGalleryFetcher) Random(ctx context.Context) (*nhentai.Gallery, error) {
	return s.Fetch(ctx, 42)
}

func mediaRouter(ig *stubMediaFetcher, nh *stubGalleryFetcher) http.Handler {
	r := chi.NewRouter()
	r.Get("/instagram", InstagramByURL(ig, nil))
	r.Get("/instagram/{mediaID}", InstagramMedia(ig, nil))
	r.Get("/nhentai/random", NhentaiRandom(nh, nil))
	r.Get("/nhentai/{galleryID}", NhentaiGallery(nh, nil))
	return r
}

func TestInstagramMediaPassesShortcode(t *testing.T) {
	ig := &stubMediaFetcher{}
	rec := httptest.NewRecorder()
	mediaRouter(ig, &stubGalleryFetcher{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/instagram/CxYz123abc", nil))

	if rec.Code != http.StatusOK || ig.got != "CxYz123abc" {
		t.Fatalf("unexpected result code=%d got=%q", rec.Code, ig.got)
	}
	var envelope struct {
		Data instagram.Media `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Source != "Instagram" {
		t.Fatalf("unexpected source %q", envelope.Data.Source)
	}
}

func TestInstagramByURLExtractsShortcode(t *testing.T) {
	ig := &stubMediaFetcher{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/instagram?url=https://www.instagram.com/p/CxYz123abc/", nil)
	mediaRouter(ig, &stubGalleryFetcher{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || ig.got != "CxYz123abc" {
		t.Fatalf("unexpected result code=%d got=%q", rec.Code, ig.got)
	}
}

func TestInstagramByURLRejectsForeignURL(t *testing.T) {
	ig := &stubMediaFetcher{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/instagram?url=https://example.com/p/abc", nil)
	mediaRouter(ig, &stubGalleryFetcher{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest || ig.got != "" {
		t.Fatalf("expected 400 without fetch, code=%d got=%q", rec.Code, ig.got)
	}
}

func TestInstagramUpstreamNotFound(t *testing.T) {
	ig := &stubMediaFetcher{err: pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "media not found")}
	rec := httptest.NewRecorder()
	mediaRouter(ig, &stubGalleryFetcher{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/instagram/CxYz123abc", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestNhentaiGallery(t *testing.T) {
	nh := &stubGalleryFetcher{}
	rec := httptest.NewRecorder()
	mediaRouter(&stubMediaFetcher{}, nh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nhentai/177013", nil))
	if rec.Code != http.StatusOK || nh.got != 177013 {
		t.Fatalf("unexpected result code=%d got=%d", rec.Code, nh.got)
	}
}

func TestNhentaiGalleryRejectsNonNumericID(t *testing.T) {
	nh := &stubGalleryFetcher{}
	rec := httptest.NewRecorder()
	mediaRouter(&stubMediaFetcher{}, nh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nhentai/abc", nil))
	if rec.Code != http.StatusBadRequest || nh.got != 0 {
		t.Fatalf("expected 400 without fetch, code=%d got=%d", rec.Code, nh.got)
	}
}

func TestNhentaiRandom(t *testing.T) {
	nh := &stubGalleryFetcher{}
	rec := httptest.NewRecorder()
	mediaRouter(&stubMediaFetcher{}, nh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nhentai/random", nil))
	if rec.Code != http.StatusOK || nh.got != 42 {
		t.Fatalf("unexpected result code=%d got=%d", rec.Code, nh.got)
	}
}
