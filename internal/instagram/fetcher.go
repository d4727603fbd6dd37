package instagram

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/upstream"
	json "github.com/goccy/go-json"
)

const (
	postURLPrefix   = "https://www.instagram.com/p/"
	authorURLPrefix = "https://www.instagram.com/"
)

var (
	mediaIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{7,39}$`)
	postURLPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?instagram\.com/.+?/([A-Za-z0-9_-]+)(?:/.*)?`)
)

type doer interface {
	Do(*http.Request) (*upstream.Response, error)
}

// Fetcher resolves Instagram shortcodes into Media records.
type Fetcher struct {
	client doer
	apiURL string
	creds  *Credentials
	logg   *logger.Logger
	now    func() time.Time
}

// NewFetcher wires a fetcher; creds must come from LoadCredentials or equivalent.
func NewFetcher(cfg config.InstagramConfig, creds *Credentials, client doer, logg *logger.Logger) *Fetcher {
	if logg == nil {
		logg = logger.Nop()
	}
	if creds == nil {
		creds = &Credentials{}
	}
	return &Fetcher{
		client: client,
		apiURL: cfg.APIURL,
		creds:  creds,
		logg:   logg,
		now:    time.Now,
	}
}

// ValidMediaID reports whether id matches the accepted shortcode grammar.
func ValidMediaID(id string) bool {
	return mediaIDPattern.MatchString(id)
}

// ShortcodeFromURL extracts the shortcode segment from a post or reel URL.
func ShortcodeFromURL(raw string) (string, error) {
	match := postURLPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", pkgerrors.New(pkgerrors.CodeInvalidIdentifier, "invalid instagram url").
			WithDetails(map[string]any{"url": raw})
	}
	return match[1], nil
}

// Fetch issues one GraphQL call for mediaID and normalizes the first returned item.
func (f *Fetcher) Fetch(ctx context.Context, mediaID string) (*Media, error) {
	if !ValidMediaID(mediaID) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidIdentifier,
			"media id must be 7-39 letters, digits, underscores or hyphens").
			WithDetails(map[string]any{"media_id": mediaID})
	}

	ctx = f.logg.WithFields(ctx, map[string]any{"upstream": "instagram", "media_id": mediaID})
	f.logg.Info(ctx, "instagram.fetch")

	req, err := f.newRequest(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		f.logg.Warn(f.logg.WithField(ctx, "status", resp.StatusCode), "instagram.bad_status")
		return nil, upstream.StatusError("instagram", resp)
	}

	media, skipped, err := parseMedia(resp.Body, f.now().UTC())
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeMalformedResponse) {
			f.logg.Error(f.logg.WithField(ctx, "body", resp.Snippet()), "instagram.malformed_response", err)
		}
		return nil, err
	}
	if len(skipped) > 0 {
		f.logg.Warn(f.logg.WithField(ctx, "skipped_items", skipped), "instagram.attachments_skipped")
	}
	return media, nil
}

func (f *Fetcher) newRequest(ctx context.Context, mediaID string) (*http.Request, error) {
	body, err := f.creds.body(mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode instagram payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build instagram request")
	}
	for key, values := range f.creds.Headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.creds.Jar != nil {
		if u, err := url.Parse(f.apiURL); err == nil {
			for _, c := range f.creds.Jar.Cookies(u) {
				req.AddCookie(c)
			}
		}
	}
	return req, nil
}

// parseMedia maps a GraphQL response body onto Media.
func parseMedia(body []byte, retrievedAt time.Time) (*Media, []int, error) {
	root, ok := decodeFields(body)
	if !ok {
		return nil, nil, malformed("response is not a JSON object")
	}

	var items []json.RawMessage
	if data, ok := get[fields](root, "data"); ok {
		if info, ok := get[fields](data, "xdt_api__v1__media__shortcode__web_info"); ok {
			items, _ = get[[]json.RawMessage](info, "items")
		}
	}
	if len(items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "media not found")
	}

	item, ok := decodeFields(items[0])
	if !ok {
		return nil, nil, malformed("first item is not an object")
	}
	code, ok := get[string](item, "code")
	if !ok || code == "" {
		return nil, nil, malformed("item has no code")
	}

	attachments, skipped := decodeNode(item).attachments()

	media := &Media{
		ID:          code,
		Source:      SourceName,
		Attachments: attachments,
		RetrievedAt: retrievedAt,
		PublishedAt: time.Unix(0, 0).UTC(),
		SourceURL:   strPtr(postURLPrefix + code),
		Tags:        []string{},
		Title:       getPtr[string](item, "title"),
		Views:       countPtr(item, "view_count"),
		Likes:       countPtr(item, "like_count"),
		Comments:    countPtr(item, "comment_count"),
	}
	if takenAt, ok := get[int64](item, "taken_at"); ok {
		media.PublishedAt = time.Unix(takenAt, 0).UTC()
	}
	if caption, ok := get[fields](item, "caption"); ok {
		media.Description = getPtr[string](caption, "text")
		if media.Description != nil {
			media.Tags = tagsFromCaption(*media.Description)
		}
	}
	if owner, ok := get[fields](item, "owner"); ok {
		media.AuthorID = idPtr(owner, "id")
		media.AuthorName = getPtr[string](owner, "username")
		if media.AuthorName != nil && *media.AuthorName != "" {
			media.AuthorURL = strPtr(authorURLPrefix + *media.AuthorName)
		}
	}
	return media, skipped, nil
}

func malformed(reason string) error {
	return pkgerrors.New(pkgerrors.CodeMalformedResponse, "instagram returned an unexpected payload").
		WithDetails(map[string]any{"reason": reason})
}

func strPtr(s string) *string {
	return &s
}
