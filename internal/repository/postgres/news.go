package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/isotime"
)

// PostgresNewsRepository implements the NewsRepository interface
type PostgresNewsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(config *RepositoryConfig) repositories.NewsRepository {
	return &PostgresNewsRepository{pool: config.Pool}
}

// Create inserts a news item, assigning its ID and timestamps.
func (r *PostgresNewsRepository) Create(ctx context.Context, item *models.NewsItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := isotime.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO news_items (id, category, title, body_markdown, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.Category,
		item.Title,
		item.BodyMarkdown,
		item.Status,
		item.PublishedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create news item: %w", err)
	}
	return nil
}

// GetByID retrieves a news item by ID
func (r *PostgresNewsRepository) GetByID(ctx context.Context, id string) (*models.NewsItem, error) {
	query := `
		SELECT id, category, title, body_markdown, status, published_at, created_at, updated_at
		FROM news_items
		WHERE id = $1
	`

	var item models.NewsItem
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Category,
		&item.Title,
		&item.BodyMarkdown,
		&item.Status,
		&item.PublishedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "news item", ID: id}
		}
		return nil, fmt.Errorf("get news item: %w", err)
	}
	return &item, nil
}

// Update overwrites the news item row, advancing UpdatedAt.
func (r *PostgresNewsRepository) Update(ctx context.Context, item *models.NewsItem) error {
	item.UpdatedAt = isotime.Now()

	query := `
		UPDATE news_items
		SET category = $1, title = $2, body_markdown = $3, status = $4, published_at = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.Category,
		item.Title,
		item.BodyMarkdown,
		item.Status,
		item.PublishedAt,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update news item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "news item", ID: item.ID}
	}
	return nil
}

// List returns news items matching the filter, newest update first.
func (r *PostgresNewsRepository) List(ctx context.Context, filter repositories.NewsFilter) ([]models.NewsItem, error) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		conditions = append(conditions, "(title ILIKE "+pattern+" OR body_markdown ILIKE "+pattern+")")
	}
	if filter.Cursor != nil {
		conditions = append(conditions, "(updated_at, id) < ("+arg(filter.Cursor.UpdatedAt)+", "+arg(filter.Cursor.ID)+")")
	}

	query := `
		SELECT id, category, title, body_markdown, status, published_at, created_at, updated_at
		FROM news_items
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT " + arg(filter.Limit)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list news items: %w", err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var item models.NewsItem
		err := rows.Scan(
			&item.ID,
			&item.Category,
			&item.Title,
			&item.BodyMarkdown,
			&item.Status,
			&item.PublishedAt,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan news item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list news items: %w", err)
	}
	return items, nil
}
