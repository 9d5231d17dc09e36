package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
)

// CreateNewsRequest is the full-resource create payload for a news item.
type CreateNewsRequest struct {
	Category     httputil.OptionalString `json:"category"`
	Title        httputil.OptionalString `json:"title"`
	BodyMarkdown httputil.OptionalString `json:"body_markdown"`
	Status       httputil.OptionalString `json:"status"`
	PublishedAt  httputil.OptionalString `json:"published_at"`
}

// UpdateNewsRequest is the sparse patch payload for a news item.
type UpdateNewsRequest struct {
	Category          httputil.OptionalString `json:"category"`
	Title             httputil.OptionalString `json:"title"`
	BodyMarkdown      httputil.OptionalString `json:"body_markdown"`
	Status            httputil.OptionalString `json:"status"`
	PublishedAt       httputil.OptionalString `json:"published_at"`
	ExpectedUpdatedAt httputil.OptionalString `json:"expected_updated_at"`
}

// ListNewsRequest filters and pages the news listing.
type ListNewsRequest struct {
	Status string
	Query  string
	Limit  int
	Cursor string
}

// NewsPage is one page of a cursor-paginated news listing.
type NewsPage struct {
	Items      []models.NewsItem
	NextCursor string
}

// NewsService manages news items: the simpler sibling of PostService,
// sharing the field validators, the status/published_at pairing rule and
// the version-token concurrency guard.
type NewsService interface {
	CreateNews(ctx context.Context, req *CreateNewsRequest) (*models.NewsItem, error)
	GetNews(ctx context.Context, id string) (*models.NewsItem, error)
	UpdateNews(ctx context.Context, id string, req *UpdateNewsRequest) (*models.NewsItem, error)
	ListNews(ctx context.Context, req *ListNewsRequest) (*NewsPage, error)
}
