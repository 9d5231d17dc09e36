package repositories

import (
	"context"
	"time"

	"inkwell/internal/domain/models"
)

// PostFilter narrows and pages a post listing. Cursor pagination orders by
// (updated_at DESC, id DESC); the cursor names the last row of the previous
// page.
type PostFilter struct {
	Status  *models.PostStatus
	TagSlug string
	Query   string
	Limit   int
	Cursor  *Cursor
}

// Cursor is a keyset-pagination position.
type Cursor struct {
	UpdatedAt time.Time
	ID        string
}

// PostRepository is the persistence port for posts. It owns durable
// storage: every write advances the post's UpdatedAt version token as a
// side effect, and the post row plus its tag links are committed
// atomically. The merge engine never persists partial state through this
// interface; it hands over one full validated next-state per call.
type PostRepository interface {
	// Create inserts a new post with its tags, assigning ID, CreatedAt and
	// the initial UpdatedAt token.
	Create(ctx context.Context, post *models.Post) error

	// GetByID loads a post with its tags. Returns domain.ErrNotFound if the
	// id does not resolve.
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// GetBySlug loads a post by its slug.
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)

	// Update overwrites the full post row and replaces its tag links in one
	// transaction, advancing UpdatedAt to a fresh token.
	Update(ctx context.Context, post *models.Post) error

	// List returns posts matching the filter, newest update first.
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)

	// ListTags returns every tag with its published usage count.
	ListTags(ctx context.Context) ([]models.Tag, error)
}
