package models

import "time"

// NewsItem is a short front-page news entry. It shares the post lifecycle
// (draft/published, published_at pairing, updated_at version token) but has
// no slug, tags or derived fields.
type NewsItem struct {
	ID           string
	Category     string
	Title        string
	BodyMarkdown string
	Status       PostStatus
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy used as the merge working state.
func (n *NewsItem) Clone() *NewsItem {
	next := *n
	next.PublishedAt = cloneTimePtr(n.PublishedAt)
	return &next
}
