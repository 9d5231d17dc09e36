package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/isotime"
	"inkwell/internal/textutil"
)

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tx:     NewTransactionManager(config.Pool),
		logger: config.Logger,
	}
}

// postColumns is the scan target list shared by every post query. Tag names
// and slugs come back as arrays ordered by link position, so the order the
// caller saved is the order it reads back.
const postColumns = `
	p.id, p.slug, p.title, p.summary, p.body_markdown, p.status,
	p.published_at, p.created_at, p.updated_at, p.reading_time_minutes,
	p.hero_image_url, p.hero_image_alt, p.featured,
	p.author_name, p.author_email, p.seo_title, p.seo_description,
	COALESCE(array_agg(t.name ORDER BY pt.position) FILTER (WHERE t.id IS NOT NULL), '{}'),
	COALESCE(array_agg(t.slug ORDER BY pt.position) FILTER (WHERE t.id IS NOT NULL), '{}')`

const postJoins = `
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id`

const postGroupBy = ` GROUP BY p.id`

func scanPost(row interface{ Scan(dest ...interface{}) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Summary,
		&post.BodyMarkdown,
		&post.Status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.ReadingTimeMinutes,
		&post.HeroImageURL,
		&post.HeroImageAlt,
		&post.Featured,
		&post.AuthorName,
		&post.AuthorEmail,
		&post.SEOTitle,
		&post.SEODescription,
		&post.TagNames,
		&post.TagSlugs,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts the post row and links its tags in one transaction.
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := isotime.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	err := r.tx.ExecTx(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.pool)

		query := `
			INSERT INTO posts (
				id, slug, title, summary, body_markdown, status, published_at,
				created_at, updated_at, reading_time_minutes,
				hero_image_url, hero_image_alt, featured,
				author_name, author_email, seo_title, seo_description
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`
		_, err := exec.Exec(ctx, query,
			post.ID,
			post.Slug,
			post.Title,
			post.Summary,
			post.BodyMarkdown,
			post.Status,
			post.PublishedAt,
			post.CreatedAt,
			post.UpdatedAt,
			post.ReadingTimeMinutes,
			post.HeroImageURL,
			post.HeroImageAlt,
			post.Featured,
			post.AuthorName,
			post.AuthorEmail,
			post.SEOTitle,
			post.SEODescription,
		)
		if err != nil {
			if isPgDuplicateError(err) {
				return fmt.Errorf("post slug '%s' already exists: %w", post.Slug, domain.ErrConflict)
			}
			return fmt.Errorf("create post: %w", err)
		}

		return r.linkTags(ctx, exec, post.ID, post.TagNames)
	})
	if err != nil {
		return err
	}

	r.logger.Debug("post inserted", "id", post.ID, "slug", post.Slug)
	return nil
}

// GetByID retrieves a post with its tags by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts p` + postJoins + ` WHERE p.id = $1` + postGroupBy

	post, err := scanPost(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "post", ID: id}
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// GetBySlug retrieves a post with its tags by slug
func (r *PostgresPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts p` + postJoins + ` WHERE p.slug = $1` + postGroupBy

	post, err := scanPost(GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "post", ID: slug}
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return post, nil
}

// Update overwrites the post row and replaces its tag links in one
// transaction. UpdatedAt is advanced here, never by the caller.
func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = isotime.Now()

	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.pool)

		query := `
			UPDATE posts
			SET slug = $1, title = $2, summary = $3, body_markdown = $4,
				status = $5, published_at = $6, updated_at = $7,
				reading_time_minutes = $8, hero_image_url = $9,
				hero_image_alt = $10, featured = $11,
				author_name = $12, author_email = $13,
				seo_title = $14, seo_description = $15
			WHERE id = $16
		`
		result, err := exec.Exec(ctx, query,
			post.Slug,
			post.Title,
			post.Summary,
			post.BodyMarkdown,
			post.Status,
			post.PublishedAt,
			post.UpdatedAt,
			post.ReadingTimeMinutes,
			post.HeroImageURL,
			post.HeroImageAlt,
			post.Featured,
			post.AuthorName,
			post.AuthorEmail,
			post.SEOTitle,
			post.SEODescription,
			post.ID,
		)
		if err != nil {
			if isPgDuplicateError(err) {
				return fmt.Errorf("post slug '%s' already exists: %w", post.Slug, domain.ErrConflict)
			}
			return fmt.Errorf("update post: %w", err)
		}
		if result.RowsAffected() == 0 {
			return &domain.NotFoundError{Resource: "post", ID: post.ID}
		}

		if _, err := exec.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("clear post tags: %w", err)
		}
		return r.linkTags(ctx, exec, post.ID, post.TagNames)
	})
}

// linkTags upserts each tag by slug and links it to the post in order. An
// existing tag keeps its stored casing.
func (r *PostgresPostRepository) linkTags(ctx context.Context, exec repositories.DBTX, postID string, tagNames []string) error {
	for i, name := range tagNames {
		slug := textutil.Slugify(name)

		var tagID string
		err := exec.QueryRow(ctx, `
			INSERT INTO tags (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING id
		`, uuid.NewString(), name, slug).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("upsert tag '%s': %w", name, err)
		}

		_, err = exec.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id, position)
			VALUES ($1, $2, $3)
		`, postID, tagID, i)
		if err != nil {
			// The post row vanished between the update and the tag link.
			if isPgForeignKeyError(err) {
				return &domain.NotFoundError{Resource: "post", ID: postID}
			}
			return fmt.Errorf("link tag '%s': %w", name, err)
		}
	}
	return nil
}

// List returns posts matching the filter, newest update first.
func (r *PostgresPostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]models.Post, error) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "p.status = "+arg(string(*filter.Status)))
	}
	if filter.TagSlug != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM post_tags fpt
			JOIN tags ft ON ft.id = fpt.tag_id
			WHERE fpt.post_id = p.id AND ft.slug = `+arg(filter.TagSlug)+`)`)
	}
	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		conditions = append(conditions, "(p.title ILIKE "+pattern+" OR p.summary ILIKE "+pattern+")")
	}
	if filter.Cursor != nil {
		conditions = append(conditions, "(p.updated_at, p.id) < ("+arg(filter.Cursor.UpdatedAt)+", "+arg(filter.Cursor.ID)+")")
	}

	query := `SELECT` + postColumns + ` FROM posts p` + postJoins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += postGroupBy + ` ORDER BY p.updated_at DESC, p.id DESC LIMIT ` + arg(filter.Limit)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListTags returns every tag with its usage count, alphabetical by name.
func (r *PostgresPostRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, COUNT(pt.post_id)
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.PostCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
