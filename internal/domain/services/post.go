// Package services defines the service interfaces and their request types.
// Request fields use httputil.Optional* wrappers so a sparse PATCH body can
// distinguish "key absent" from "key present with null"; only keys the
// caller actually supplied are processed.
package services

import (
	"bytes"
	"context"
	"encoding/json"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
)

// CreatePostRequest is the full-resource create payload. Required fields
// must all be present; this is not a sparse operation, but it shares the
// field validators and the invariant checks with the patch path.
type CreatePostRequest struct {
	Title        httputil.OptionalString `json:"title"`
	Summary      httputil.OptionalString `json:"summary"`
	BodyMarkdown httputil.OptionalString `json:"body_markdown"`
	Slug         httputil.OptionalString `json:"slug"`
	Status       httputil.OptionalString `json:"status"`
	PublishedAt  httputil.OptionalString `json:"published_at"`
	HeroImageURL httputil.OptionalString `json:"hero_image_url"`
	HeroImageAlt httputil.OptionalString `json:"hero_image_alt"`
	Featured     httputil.OptionalBool   `json:"featured"`
	AuthorName   httputil.OptionalString `json:"author_name"`
	AuthorEmail  httputil.OptionalString `json:"author_email"`
	SEOTitle     httputil.OptionalString `json:"seo_title"`
	SEODesc      httputil.OptionalString `json:"seo_description"`
	Tags         models.TagPatch         `json:"tags"`
}

// RecomputeRequest names the derived fields a patch wants recalculated. It
// is a value field for the same reason TagPatch is: only a value field lets
// the unmarshaler see "recompute": null and flag it, instead of the decoder
// nil-ing a pointer behind its back.
type RecomputeRequest struct {
	Present bool
	Invalid bool

	SlugFromTitle httputil.OptionalBool
	ReadingTime   httputil.OptionalBool
}

// UnmarshalJSON records any non-object shape as invalid so it surfaces as a
// field error alongside the rest of the validation pass.
func (r *RecomputeRequest) UnmarshalJSON(data []byte) error {
	r.Present = true

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		r.Invalid = true
		return nil
	}

	var flags struct {
		SlugFromTitle httputil.OptionalBool `json:"slugFromTitle"`
		ReadingTime   httputil.OptionalBool `json:"readingTime"`
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		r.Invalid = true
		return nil
	}
	r.SlugFromTitle = flags.SlugFromTitle
	r.ReadingTime = flags.ReadingTime
	return nil
}

// UpdatePostRequest is the sparse patch payload for a post. Absent fields
// leave the resource untouched. ExpectedUpdatedAt, when present, is the
// optimistic-concurrency token compared against the stored row.
type UpdatePostRequest struct {
	Title             httputil.OptionalString `json:"title"`
	Summary           httputil.OptionalString `json:"summary"`
	BodyMarkdown      httputil.OptionalString `json:"body_markdown"`
	Status            httputil.OptionalString `json:"status"`
	PublishedAt       httputil.OptionalString `json:"published_at"`
	HeroImageURL      httputil.OptionalString `json:"hero_image_url"`
	HeroImageAlt      httputil.OptionalString `json:"hero_image_alt"`
	Featured          httputil.OptionalBool   `json:"featured"`
	AuthorName        httputil.OptionalString `json:"author_name"`
	AuthorEmail       httputil.OptionalString `json:"author_email"`
	SEOTitle          httputil.OptionalString `json:"seo_title"`
	SEODesc           httputil.OptionalString `json:"seo_description"`
	Tags              models.TagPatch         `json:"tags"`
	Recompute         RecomputeRequest        `json:"recompute"`
	ExpectedUpdatedAt httputil.OptionalString `json:"expected_updated_at"`
}

// ListPostsRequest filters and pages the post listing.
type ListPostsRequest struct {
	Status  string
	TagSlug string
	Query   string
	Limit   int
	Cursor  string
}

// PostPage is one page of a cursor-paginated listing.
type PostPage struct {
	Posts      []models.Post
	NextCursor string
}

// PostService is the post content engine: create, lookup, listing, and the
// patch/merge operation that is the heart of the Codex API.
type PostService interface {
	CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, req *UpdatePostRequest) (*models.Post, error)
	ListPosts(ctx context.Context, req *ListPostsRequest) (*PostPage, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}
