package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/isotime"
)

type fakeNewsRepo struct {
	items map[string]*models.NewsItem
	clock time.Time
	seq   int
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{
		items: make(map[string]*models.NewsItem),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeNewsRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeNewsRepo) Create(ctx context.Context, item *models.NewsItem) error {
	r.seq++
	item.ID = "news-" + string(rune('0'+r.seq))
	now := r.tick()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *fakeNewsRepo) GetByID(ctx context.Context, id string) (*models.NewsItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "news item", ID: id}
	}
	return item.Clone(), nil
}

func (r *fakeNewsRepo) Update(ctx context.Context, item *models.NewsItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return &domain.NotFoundError{Resource: "news item", ID: item.ID}
	}
	item.UpdatedAt = r.tick()
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *fakeNewsRepo) List(ctx context.Context, filter repositories.NewsFilter) ([]models.NewsItem, error) {
	var items []models.NewsItem
	for _, item := range r.items {
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		items = append(items, *item.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func newTestNewsService(t *testing.T) (services.NewsService, *fakeNewsRepo) {
	t.Helper()
	repo := newFakeNewsRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNewsService(repo, logger), repo
}

func newsCreateJSON(t *testing.T, raw string) *services.CreateNewsRequest {
	t.Helper()
	var req services.CreateNewsRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("decode create request: %v", err)
	}
	return &req
}

func newsPatchJSON(t *testing.T, raw string) *services.UpdateNewsRequest {
	t.Helper()
	var req services.UpdateNewsRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("decode patch request: %v", err)
	}
	return &req
}

const baseNews = `{
	"category": "release",
	"title": "Shipped a thing",
	"body_markdown": "It works now."
}`

func TestCreateNews(t *testing.T) {
	t.Run("defaults to draft", func(t *testing.T) {
		svc, _ := newTestNewsService(t)
		item, err := svc.CreateNews(context.Background(), newsCreateJSON(t, baseNews))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if item.Status != models.StatusDraft {
			t.Errorf("status = %q, want draft", item.Status)
		}
		if item.PublishedAt != nil {
			t.Errorf("published_at = %v, want nil", item.PublishedAt)
		}
	})

	t.Run("missing fields accumulate", func(t *testing.T) {
		svc, _ := newTestNewsService(t)
		_, err := svc.CreateNews(context.Background(), newsCreateJSON(t, `{}`))
		fields := validationFields(t, err)

		want := []string{
			"category is required.",
			"title is required.",
			"body_markdown must be a string.",
		}
		if !reflect.DeepEqual(fields, want) {
			t.Errorf("fields = %v, want %v", fields, want)
		}
	})

	t.Run("published requires published_at", func(t *testing.T) {
		svc, _ := newTestNewsService(t)
		_, err := svc.CreateNews(context.Background(), newsCreateJSON(t,
			`{"category": "c", "title": "t", "body_markdown": "b", "status": "published"}`))
		fields := validationFields(t, err)
		if !reflect.DeepEqual(fields, []string{"published_at is required when status is published."}) {
			t.Errorf("fields = %v", fields)
		}
	})
}

func TestUpdateNews(t *testing.T) {
	seed := func(t *testing.T) (services.NewsService, *fakeNewsRepo, *models.NewsItem) {
		t.Helper()
		svc, repo := newTestNewsService(t)
		item, err := svc.CreateNews(context.Background(), newsCreateJSON(t, baseNews))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return svc, repo, item
	}

	t.Run("sparse patch preserves other fields", func(t *testing.T) {
		svc, _, item := seed(t)

		updated, err := svc.UpdateNews(context.Background(), item.ID, newsPatchJSON(t, `{"title": "Retitled"}`))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "Retitled" {
			t.Errorf("title = %q", updated.Title)
		}
		if updated.Category != "release" || updated.BodyMarkdown != "It works now." {
			t.Error("untouched fields changed")
		}
		if updated.UpdatedAt.Equal(item.UpdatedAt) {
			t.Error("updated_at did not advance")
		}
	})

	t.Run("invalid fields accumulate atomically", func(t *testing.T) {
		svc, repo, item := seed(t)

		_, err := svc.UpdateNews(context.Background(), item.ID,
			newsPatchJSON(t, `{"category": "", "status": "archived"}`))
		fields := validationFields(t, err)
		want := []string{
			"category is required.",
			"status must be draft or published.",
		}
		if !reflect.DeepEqual(fields, want) {
			t.Errorf("fields = %v, want %v", fields, want)
		}

		stored, _ := repo.GetByID(context.Background(), item.ID)
		if stored.Category != "release" {
			t.Error("failed patch mutated stored item")
		}
	})

	t.Run("stale token conflicts", func(t *testing.T) {
		svc, _, item := seed(t)
		stale := isotime.Format(item.UpdatedAt)

		if _, err := svc.UpdateNews(context.Background(), item.ID, newsPatchJSON(t, `{"title": "v2"}`)); err != nil {
			t.Fatalf("first update: %v", err)
		}

		_, err := svc.UpdateNews(context.Background(), item.ID,
			newsPatchJSON(t, `{"title": "v3", "expected_updated_at": "`+stale+`"}`))
		var conflict *domain.VersionConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected VersionConflictError, got %v", err)
		}
		if conflict.Expected != stale {
			t.Errorf("Expected = %q, want %q", conflict.Expected, stale)
		}
	})

	t.Run("demoting to draft clears published_at", func(t *testing.T) {
		svc, _, _ := seed(t)
		item, err := svc.CreateNews(context.Background(), newsCreateJSON(t,
			`{"category": "c", "title": "t", "body_markdown": "b",
			  "status": "published", "published_at": "2025-06-01T09:00:00.000Z"}`))
		if err != nil {
			t.Fatalf("create published: %v", err)
		}

		updated, err := svc.UpdateNews(context.Background(), item.ID, newsPatchJSON(t, `{"status": "draft"}`))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.PublishedAt != nil {
			t.Errorf("published_at = %v, want nil", updated.PublishedAt)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestNewsService(t)
		_, err := svc.UpdateNews(context.Background(), "missing", newsPatchJSON(t, `{"title": "x"}`))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListNews(t *testing.T) {
	svc, _ := newTestNewsService(t)
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateNews(context.Background(), newsCreateJSON(t, baseNews)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.ListNews(context.Background(), &services.ListNewsRequest{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("got %d items, want 2", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Error("expected next cursor")
	}
}
