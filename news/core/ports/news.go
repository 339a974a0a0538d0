package coreports

import "context"

// Article is a news item produced by the fetch collaborator. Articles are
// transient: each is independently uploaded to the backend and dropped on
// failure, never persisted as-is.
type Article struct {
	ID          string `json:"article_id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishedAt string `json:"pubDate"`
	Timezone    string `json:"pubDateTZ"`
	Content     string `json:"content"`
}

// NewsFetcher retrieves articles matching a free-text query. An empty
// result is benign; a returned error is pipeline-fatal.
type NewsFetcher interface {
	Fetch(ctx context.Context, query string) ([]Article, error)
}
