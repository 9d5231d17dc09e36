package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// NewsFilter narrows and pages a news listing, same cursor scheme as posts.
type NewsFilter struct {
	Status *models.PostStatus
	Query  string
	Limit  int
	Cursor *Cursor
}

// NewsRepository is the persistence port for news items. Update advances
// the UpdatedAt version token, mirroring the post store contract.
type NewsRepository interface {
	Create(ctx context.Context, item *models.NewsItem) error
	GetByID(ctx context.Context, id string) (*models.NewsItem, error)
	Update(ctx context.Context, item *models.NewsItem) error
	List(ctx context.Context, filter NewsFilter) ([]models.NewsItem, error)
}
