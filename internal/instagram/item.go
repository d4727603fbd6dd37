package instagram

import (
	"strconv"

	json "github.com/goccy/go-json"
)

type nodeKind int

const (
	kindImage nodeKind = iota
	kindVideo
	kindCarousel
)

func (k nodeKind) String() string {
	switch k {
	case kindVideo:
		return "video"
	case kindCarousel:
		return "carousel"
	default:
		return "image"
	}
}

// candidate is one encoded rendition of a sub-item.
type candidate struct {
	Width  int64
	Height int64
	URL    string
}

func (c candidate) area() int64 {
	return c.Width * c.Height
}

// node is a decoded media item: a carousel of children, or a leaf with renditions.
type node struct {
	kind     nodeKind
	videos   []candidate
	images   []candidate
	children []node
}

type fields map[string]json.RawMessage

// decodeFields reads a JSON object; ok is false for anything else, including null.
func decodeFields(raw json.RawMessage) (fields, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var out fields
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}

// get decodes key as T. Missing, null, or wrong-typed values report false.
func get[T any](f fields, key string) (T, bool) {
	var zero T
	raw, ok := f[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}

func getPtr[T any](f fields, key string) *T {
	v, ok := get[T](f, key)
	if !ok {
		return nil
	}
	return &v
}

// countPtr reads a non-negative count; negative values report absent.
func countPtr(f fields, key string) *int64 {
	v, ok := get[int64](f, key)
	if !ok || v < 0 {
		return nil
	}
	return &v
}

// idPtr reads an identifier sent either as a string or as a JSON integer.
func idPtr(f fields, key string) *string {
	if s, ok := get[string](f, key); ok {
		return &s
	}
	if n, ok := get[int64](f, key); ok {
		s := strconv.FormatInt(n, 10)
		return &s
	}
	return nil
}

// decodeNode classifies one item. A non-empty carousel_media list wins over the item's own renditions.
func decodeNode(f fields) node {
	if children, ok := get[[]json.RawMessage](f, "carousel_media"); ok && len(children) > 0 {
		n := node{kind: kindCarousel, children: make([]node, 0, len(children))}
		for _, raw := range children {
			child, ok := decodeFields(raw)
			if !ok {
				n.children = append(n.children, node{kind: kindImage})
				continue
			}
			n.children = append(n.children, decodeLeaf(child))
		}
		return n
	}
	return decodeLeaf(f)
}

func decodeLeaf(f fields) node {
	n := node{kind: kindImage}
	if videos, ok := get[[]json.RawMessage](f, "video_versions"); ok && len(videos) > 0 {
		n.kind = kindVideo
		n.videos = decodeCandidates(videos)
	}
	if versions, ok := get[fields](f, "image_versions2"); ok {
		if images, ok := get[[]json.RawMessage](versions, "candidates"); ok {
			n.images = decodeCandidates(images)
		}
	}
	return n
}

// decodeCandidates keeps only renditions with positive dimensions and a URL.
func decodeCandidates(raws []json.RawMessage) []candidate {
	out := make([]candidate, 0, len(raws))
	for _, raw := range raws {
		f, ok := decodeFields(raw)
		if !ok {
			continue
		}
		w, okW := get[int64](f, "width")
		h, okH := get[int64](f, "height")
		u, okU := get[string](f, "url")
		if !okW || !okH || !okU || w <= 0 || h <= 0 || u == "" {
			continue
		}
		out = append(out, candidate{Width: w, Height: h, URL: u})
	}
	return out
}
