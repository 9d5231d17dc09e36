// Package models defines the content entities managed through the Codex
// API.
package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	return s == string(StatusDraft) || s == string(StatusPublished)
}

// Post is the blog article entity.
//
// UpdatedAt doubles as the optimistic-concurrency version token: every
// successful write advances it, and PATCH callers may send its canonical
// form back as expected_updated_at to detect concurrent edits. The store,
// not the caller, generates new values.
type Post struct {
	ID                 string
	Slug               string
	Title              string
	Summary            string
	BodyMarkdown       string
	Status             PostStatus
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReadingTimeMinutes int
	HeroImageURL       *string
	HeroImageAlt       *string
	Featured           bool
	AuthorName         string
	AuthorEmail        string
	SEOTitle           *string
	SEODescription     *string
	TagNames           []string
	TagSlugs           []string
}

// Clone returns a deep copy of the post, used as the starting point of a
// merge so the loaded row stays untouched until commit.
func (p *Post) Clone() *Post {
	next := *p
	next.PublishedAt = cloneTimePtr(p.PublishedAt)
	next.HeroImageURL = cloneStringPtr(p.HeroImageURL)
	next.HeroImageAlt = cloneStringPtr(p.HeroImageAlt)
	next.SEOTitle = cloneStringPtr(p.SEOTitle)
	next.SEODescription = cloneStringPtr(p.SEODescription)
	next.TagNames = append([]string(nil), p.TagNames...)
	next.TagSlugs = append([]string(nil), p.TagSlugs...)
	return &next
}

// Tag is a tag with its usage count, as returned by the tag listing.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count"`
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
