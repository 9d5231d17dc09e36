package service

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/isotime"
)

// newsService implements the NewsService interface.
type newsService struct {
	repo   repositories.NewsRepository
	logger *slog.Logger
}

// NewNewsService creates a new news service.
func NewNewsService(repo repositories.NewsRepository, logger *slog.Logger) services.NewsService {
	return &newsService{repo: repo, logger: logger}
}

// CreateNews creates a news item from a full-resource payload.
func (s *newsService) CreateNews(ctx context.Context, req *services.CreateNewsRequest) (*models.NewsItem, error) {
	var errs errorList

	category, _ := requiredString(&errs, "category", req.Category)
	title, _ := requiredString(&errs, "title", req.Title)
	body, _ := requiredText(&errs, "body_markdown", req.BodyMarkdown)

	status := models.StatusDraft
	if req.Status.Present {
		if v, ok := statusField(&errs, req.Status); ok {
			status = models.PostStatus(v)
		}
	}

	var publishedAt *time.Time
	if status == models.StatusPublished {
		if !req.PublishedAt.IsString {
			errs.add("published_at is required when status is published.")
		} else if t, err := isotime.Parse(req.PublishedAt.Value); err != nil {
			errs.add("published_at must be a valid ISO timestamp.")
		} else {
			publishedAt = &t
		}
	} else if req.PublishedAt.Present && !req.PublishedAt.Null {
		errs.add("published_at must be null or omitted when status is draft.")
	}

	if !errs.empty() {
		return nil, &domain.ValidationError{Fields: errs.fields}
	}

	item := &models.NewsItem{
		Category:     category,
		Title:        title,
		BodyMarkdown: body,
		Status:       status,
		PublishedAt:  publishedAt,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, &domain.StorageError{Op: "reload news item " + item.ID, ReadBack: true, Err: err}
	}

	s.logger.Info("news item created", "id", created.ID, "category", created.Category, "status", created.Status)
	return created, nil
}

// GetNews retrieves a news item by id.
func (s *newsService) GetNews(ctx context.Context, id string) (*models.NewsItem, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateNews applies a sparse patch to a news item. Same ordering as the
// post merge: load, validate supplied fields, fail atomically, merge onto a
// clone, check the version token, normalize draft state, validate invariants,
// write and reload.
func (s *newsService) UpdateNews(ctx context.Context, id string, req *services.UpdateNewsRequest) (*models.NewsItem, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs errorList
	var expectedVersion string
	if req.ExpectedUpdatedAt.Present {
		expectedVersion, _ = versionToken(&errs, "expected_updated_at", req.ExpectedUpdatedAt)
	}

	var category, title, body *string
	var status *models.PostStatus
	var publishedAtSet bool
	var publishedAt *time.Time

	if req.Category.Present {
		if v, ok := requiredString(&errs, "category", req.Category); ok {
			category = &v
		}
	}
	if req.Title.Present {
		if v, ok := requiredString(&errs, "title", req.Title); ok {
			title = &v
		}
	}
	if req.BodyMarkdown.Present {
		if v, ok := requiredText(&errs, "body_markdown", req.BodyMarkdown); ok {
			body = &v
		}
	}
	if req.Status.Present {
		if v, ok := statusField(&errs, req.Status); ok {
			st := models.PostStatus(v)
			status = &st
		}
	}
	if req.PublishedAt.Present {
		if v, ok := isoTimestampField(&errs, "published_at", req.PublishedAt); ok {
			publishedAtSet = true
			publishedAt = v
		}
	}

	if !errs.empty() {
		return nil, &domain.ValidationError{Fields: errs.fields}
	}

	next := current.Clone()
	if category != nil {
		next.Category = *category
	}
	if title != nil {
		next.Title = *title
	}
	if body != nil {
		next.BodyMarkdown = *body
	}
	if status != nil {
		next.Status = *status
	}
	if publishedAtSet {
		next.PublishedAt = publishedAt
	}

	if expectedVersion != "" {
		actual := isotime.Format(current.UpdatedAt)
		if expectedVersion != actual {
			return nil, &domain.VersionConflictError{
				Resource: "news item",
				Expected: expectedVersion,
				Actual:   actual,
			}
		}
	}

	if next.Status == models.StatusDraft {
		next.PublishedAt = nil
	}

	if fields := validateNewsInvariants(next); len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "reload news item " + id, ReadBack: true, Err: err}
	}

	s.logger.Info("news item updated", "id", updated.ID, "updated_at", isotime.Format(updated.UpdatedAt))
	return updated, nil
}

// ListNews returns one cursor-paginated page of news items.
func (s *newsService) ListNews(ctx context.Context, req *services.ListNewsRequest) (*services.NewsPage, error) {
	filter := repositories.NewsFilter{Query: req.Query}

	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			return nil, &domain.ValidationError{Fields: []string{"status must be draft or published."}}
		}
		status := models.PostStatus(req.Status)
		filter.Status = &status
	}

	limit, err := pageLimit(req.Limit)
	if err != nil {
		return nil, err
	}

	if req.Cursor != "" {
		cursor, err := parseCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
		filter.Cursor = cursor
	}

	filter.Limit = limit + 1
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &services.NewsPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = isotime.Format(last.UpdatedAt) + "|" + last.ID
	}
	return page, nil
}
