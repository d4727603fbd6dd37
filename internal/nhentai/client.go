package nhentai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/upstream"
)

type doer interface {
	Do(*http.Request) (*upstream.Response, error)
}

// Client fetches galleries from the public nhentai API. It never retries.
type Client struct {
	client  doer
	baseURL string
	urls    urlBuilder
	logg    *logger.Logger
}

func NewClient(cfg config.NhentaiConfig, client doer, logg *logger.Logger) *Client {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		urls: urlBuilder{
			imageBase: strings.TrimRight(cfg.ImageBaseURL, "/"),
			thumbBase: strings.TrimRight(cfg.ThumbBaseURL, "/"),
		},
		logg: logg,
	}
}

// Fetch issues one GET for galleryID and normalizes the result.
func (c *Client) Fetch(ctx context.Context, galleryID int) (*Gallery, error) {
	if galleryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidIdentifier, "gallery id must be a positive integer").
			WithDetails(map[string]any{"gallery_id": galleryID})
	}

	ctx = c.logg.WithFields(ctx, map[string]any{"upstream": "nhentai", "gallery_id": galleryID})
	c.logg.Info(ctx, "nhentai.fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/gallery/%d", c.baseURL, galleryID), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build nhentai request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "gallery not found").
			WithDetails(map[string]any{"gallery_id": galleryID})
	case !resp.OK():
		c.logg.Warn(c.logg.WithField(ctx, "status", resp.StatusCode), "nhentai.bad_status")
		return nil, upstream.StatusError("nhentai", resp)
	}

	gallery, reported, err := c.urls.parseGallery(resp.Body, galleryID)
	if err != nil {
		c.logg.Error(c.logg.WithField(ctx, "body", resp.Snippet()), "nhentai.malformed_response", err)
		return nil, err
	}
	if reported != gallery.NumPages {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"reported_pages": reported,
			"listed_pages":   gallery.NumPages,
		}), "nhentai.page_count_mismatch")
	}
	return gallery, nil
}
