package instagram

import "time"

// SourceName is the platform tag stamped on every Media record.
const SourceName = "Instagram"

// Media is a normalized Instagram post or reel.
type Media struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Attachments []string  `json:"attachments"`
	RetrievedAt time.Time `json:"retrieved_at"`
	PublishedAt time.Time `json:"published_at"`
	SourceURL   *string   `json:"source_url"`
	Tags        []string  `json:"tags"`
	Title       *string   `json:"title"`
	AuthorID    *string   `json:"author_id"`
	AuthorName  *string   `json:"author_name"`
	AuthorURL   *string   `json:"author_url"`
	Description *string   `json:"description"`
	Views       *int64    `json:"views"`
	Likes       *int64    `json:"likes"`
	Comments    *int64    `json:"comments"`
}
