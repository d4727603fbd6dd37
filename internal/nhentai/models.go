package nhentai

// Title carries the three renderings nhentai keeps for a gallery name.
type Title struct {
	English  string `json:"english"`
	Japanese string `json:"japanese"`
	Pretty   string `json:"pretty"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

// Images holds CDN URLs derived from the media id.
type Images struct {
	Pages     []string `json:"pages"`
	Cover     string   `json:"cover"`
	Thumbnail string   `json:"thumbnail"`
}

// Gallery is a normalized nhentai catalog entry. NumPages always equals len(Images.Pages).
type Gallery struct {
	ID           int64  `json:"id"`
	MediaID      int64  `json:"media_id"`
	Title        Title  `json:"title"`
	Images       Images `json:"images"`
	Scanlator    string `json:"scanlator"`
	UploadDate   int64  `json:"upload_date"`
	Tags         []Tag  `json:"tags"`
	NumPages     int    `json:"num_pages"`
	NumFavorites int64  `json:"num_favorites"`
}
