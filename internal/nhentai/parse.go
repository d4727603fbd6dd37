package nhentai

import (
	"bytes"
	"fmt"
	"strconv"

	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	json "github.com/goccy/go-json"
)

var extensions = map[string]string{
	"j": "jpg",
	"p": "png",
	"g": "gif",
}

const defaultExtension = "jpg"

// flexInt accepts a JSON number or a numeric string; nhentai sends media_id as a string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %q", data)
	}
	*f = flexInt(n)
	return nil
}

type rawTitle struct {
	English  *string `json:"english"`
	Japanese *string `json:"japanese"`
	Pretty   *string `json:"pretty"`
}

type rawPage struct {
	T string `json:"t"`
}

type rawImages struct {
	Pages *[]rawPage `json:"pages"`
}

type rawTag struct {
	ID    flexInt `json:"id"`
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	URL   string  `json:"url"`
	Count int64   `json:"count"`
}

type rawGallery struct {
	ID           *flexInt   `json:"id"`
	MediaID      *flexInt   `json:"media_id"`
	Title        *rawTitle  `json:"title"`
	Images       *rawImages `json:"images"`
	Scanlator    string     `json:"scanlator"`
	UploadDate   int64      `json:"upload_date"`
	Tags         []rawTag   `json:"tags"`
	NumPages     int        `json:"num_pages"`
	NumFavorites int64      `json:"num_favorites"`
}

// extension maps a page format code to a file extension, defaulting to jpg.
func extension(code string) string {
	if ext, ok := extensions[code]; ok {
		return ext
	}
	return defaultExtension
}

// urlBuilder renders deterministic CDN URLs for a media id.
type urlBuilder struct {
	imageBase string
	thumbBase string
}

func (b urlBuilder) page(mediaID int64, index int, code string) string {
	return fmt.Sprintf("%s/galleries/%d/%d.%s", b.imageBase, mediaID, index, extension(code))
}

func (b urlBuilder) cover(mediaID int64) string {
	return fmt.Sprintf("%s/galleries/%d/cover.jpg", b.imageBase, mediaID)
}

func (b urlBuilder) thumbnail(mediaID int64) string {
	return fmt.Sprintf("%s/galleries/%d/thumb.jpg", b.thumbBase, mediaID)
}

// parseGallery maps the gallery API body onto Gallery. It returns the upstream
// num_pages alongside so callers can flag disagreement with the page list.
func (b urlBuilder) parseGallery(body []byte, requestedID int) (*Gallery, int, error) {
	var raw rawGallery
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, malformed(requestedID, "decode body: "+err.Error())
	}
	switch {
	case raw.Title == nil:
		return nil, 0, malformed(requestedID, "missing title")
	case raw.Images == nil || raw.Images.Pages == nil:
		return nil, 0, malformed(requestedID, "missing images.pages")
	case raw.MediaID == nil:
		return nil, 0, malformed(requestedID, "missing media_id")
	}

	mediaID := int64(*raw.MediaID)
	pages := make([]string, 0, len(*raw.Images.Pages))
	for i, p := range *raw.Images.Pages {
		pages = append(pages, b.page(mediaID, i+1, p.T))
	}

	tags := make([]Tag, 0, len(raw.Tags))
	for _, t := range raw.Tags {
		tags = append(tags, Tag{ID: int64(t.ID), Type: t.Type, Name: t.Name, URL: t.URL, Count: t.Count})
	}

	id := int64(requestedID)
	if raw.ID != nil {
		id = int64(*raw.ID)
	}

	return &Gallery{
		ID:      id,
		MediaID: mediaID,
		Title: Title{
			English:  deref(raw.Title.English),
			Japanese: deref(raw.Title.Japanese),
			Pretty:   deref(raw.Title.Pretty),
		},
		Images: Images{
			Pages:     pages,
			Cover:     b.cover(mediaID),
			Thumbnail: b.thumbnail(mediaID),
		},
		Scanlator:    raw.Scanlator,
		UploadDate:   raw.UploadDate,
		Tags:         tags,
		NumPages:     len(pages),
		NumFavorites: raw.NumFavorites,
	}, raw.NumPages, nil
}

func malformed(galleryID int, reason string) error {
	return pkgerrors.New(pkgerrors.CodeMalformedResponse, "nhentai returned an unexpected payload").
		WithDetails(map[string]any{"gallery_id": galleryID, "reason": reason})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
