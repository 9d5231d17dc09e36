package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/isotime"
	"inkwell/internal/textutil"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// postService implements the PostService interface.
type postService struct {
	repo   repositories.PostRepository
	logger *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(repo repositories.PostRepository, logger *slog.Logger) services.PostService {
	return &postService{repo: repo, logger: logger}
}

// postUpdates is the sparse update map produced by field validation: only
// fields the caller actually supplied are marked set, and only validated
// values are ever applied.
type postUpdates struct {
	title        *string
	summary      *string
	bodyMarkdown *string
	status       *models.PostStatus
	authorName   *string
	authorEmail  *string
	featured     *bool

	publishedAtSet bool
	publishedAt    *time.Time

	heroImageURLSet bool
	heroImageURL    *string
	heroImageAltSet bool
	heroImageAlt    *string
	seoTitleSet     bool
	seoTitle        *string
	seoDescSet      bool
	seoDesc         *string

	recomputeSlug        bool
	recomputeReadingTime bool

	expectedVersion string
}

// UpdatePost applies a sparse patch to a post.
//
// The algorithm is strictly ordered: load, validate every supplied field
// (accumulating errors), fail atomically on any field error, merge the
// validated updates onto a copy of the loaded row, resolve the tag patch
// against the loaded tags, check the version token against the loaded row,
// apply recompute directives and the draft/published normalization, validate
// the full next-state invariants, then commit the whole next-state in one
// write and reload it. Nothing is persisted unless every step passes.
func (s *postService) UpdatePost(ctx context.Context, id string, req *services.UpdatePostRequest) (*models.Post, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs errorList
	updates := s.validatePatch(req, &errs)

	if !errs.empty() {
		return nil, &domain.ValidationError{Fields: errs.fields}
	}

	next := current.Clone()
	applyUpdates(next, updates)

	if req.Tags.Present {
		// Resolved against the loaded tags, not the in-progress next-state.
		// Shape errors were already caught in validatePatch.
		if tags, ok := req.Tags.Resolve(current.TagNames); ok {
			next.TagNames = tags
			next.TagSlugs = slugsFor(tags)
		}
	}

	// Concurrency check happens against the row loaded in this request; the
	// store advances UpdatedAt on every write, so a stale token means the
	// post changed since the caller last read it.
	if updates.expectedVersion != "" {
		actual := isotime.Format(current.UpdatedAt)
		if updates.expectedVersion != actual {
			return nil, &domain.VersionConflictError{
				Resource: "post",
				Expected: updates.expectedVersion,
				Actual:   actual,
			}
		}
	}

	if updates.recomputeSlug {
		slug := textutil.Slugify(next.Title)
		if slug == "" {
			return nil, &domain.ValidationError{Fields: []string{"Unable to compute slug from title."}}
		}
		next.Slug = slug
	}

	bodyChanged := updates.bodyMarkdown != nil && *updates.bodyMarkdown != current.BodyMarkdown
	if bodyChanged || updates.recomputeReadingTime {
		next.ReadingTimeMinutes = textutil.EstimateReadingTime(next.BodyMarkdown)
	}

	// Draft normalization runs on every merge, whether or not status was in
	// the patch: a draft never carries a publication time.
	if next.Status == models.StatusDraft {
		next.PublishedAt = nil
	}

	if fields := validatePostInvariants(next); len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// The write committed; failing to read it back is a server fault
		// distinct from validation and conflict errors.
		return nil, &domain.StorageError{Op: "reload post " + id, ReadBack: true, Err: err}
	}

	s.logger.Info("post updated",
		"id", updated.ID,
		"slug", updated.Slug,
		"status", updated.Status,
		"updated_at", isotime.Format(updated.UpdatedAt),
	)

	return updated, nil
}

// validatePatch runs the field validators over every supplied key and
// builds the sparse update map. Errors accumulate; invalid fields are never
// applied.
func (s *postService) validatePatch(req *services.UpdatePostRequest, errs *errorList) *postUpdates {
	updates := &postUpdates{}

	// The token's shape is validated before the resource is touched; the
	// actual comparison is deferred until after field validation.
	if req.ExpectedUpdatedAt.Present {
		if token, ok := versionToken(errs, "expected_updated_at", req.ExpectedUpdatedAt); ok {
			updates.expectedVersion = token
		}
	}

	if req.Title.Present {
		if v, ok := requiredString(errs, "title", req.Title); ok {
			updates.title = &v
		}
	}
	if req.Summary.Present {
		if v, ok := requiredString(errs, "summary", req.Summary); ok {
			updates.summary = &v
		}
	}
	if req.BodyMarkdown.Present {
		if v, ok := requiredText(errs, "body_markdown", req.BodyMarkdown); ok {
			updates.bodyMarkdown = &v
		}
	}
	if req.Status.Present {
		if v, ok := statusField(errs, req.Status); ok {
			status := models.PostStatus(v)
			updates.status = &status
		}
	}
	if req.PublishedAt.Present {
		if v, ok := isoTimestampField(errs, "published_at", req.PublishedAt); ok {
			updates.publishedAtSet = true
			updates.publishedAt = v
		}
	}
	if req.HeroImageURL.Present {
		if v, ok := optionalString(errs, "hero_image_url", req.HeroImageURL); ok {
			updates.heroImageURLSet = true
			updates.heroImageURL = v
		}
	}
	if req.HeroImageAlt.Present {
		if v, ok := optionalString(errs, "hero_image_alt", req.HeroImageAlt); ok {
			updates.heroImageAltSet = true
			updates.heroImageAlt = v
		}
	}
	if req.Featured.Present {
		if v, ok := booleanField(errs, "featured", req.Featured); ok {
			updates.featured = &v
		}
	}
	if req.AuthorName.Present {
		if v, ok := requiredString(errs, "author_name", req.AuthorName); ok {
			updates.authorName = &v
		}
	}
	if req.AuthorEmail.Present {
		if v, ok := requiredString(errs, "author_email", req.AuthorEmail); ok {
			updates.authorEmail = &v
		}
	}
	if req.SEOTitle.Present {
		if v, ok := optionalString(errs, "seo_title", req.SEOTitle); ok {
			updates.seoTitleSet = true
			updates.seoTitle = v
		}
	}
	if req.SEODesc.Present {
		if v, ok := optionalString(errs, "seo_description", req.SEODesc); ok {
			updates.seoDescSet = true
			updates.seoDesc = v
		}
	}

	if req.Tags.Present && req.Tags.Invalid {
		errs.add("tags must be an array or an object with set/add/remove.")
	}

	if req.Recompute.Present {
		if req.Recompute.Invalid {
			errs.add("recompute must be an object.")
		} else {
			if req.Recompute.SlugFromTitle.Present {
				if v, ok := booleanField(errs, "recompute.slugFromTitle", req.Recompute.SlugFromTitle); ok {
					updates.recomputeSlug = v
				}
			}
			if req.Recompute.ReadingTime.Present {
				if v, ok := booleanField(errs, "recompute.readingTime", req.Recompute.ReadingTime); ok {
					updates.recomputeReadingTime = v
				}
			}
		}
	}

	return updates
}

// applyUpdates overwrites only the touched fields of the next-state.
func applyUpdates(next *models.Post, u *postUpdates) {
	if u.title != nil {
		next.Title = *u.title
	}
	if u.summary != nil {
		next.Summary = *u.summary
	}
	if u.bodyMarkdown != nil {
		next.BodyMarkdown = *u.bodyMarkdown
	}
	if u.status != nil {
		next.Status = *u.status
	}
	if u.publishedAtSet {
		next.PublishedAt = u.publishedAt
	}
	if u.heroImageURLSet {
		next.HeroImageURL = u.heroImageURL
	}
	if u.heroImageAltSet {
		next.HeroImageAlt = u.heroImageAlt
	}
	if u.featured != nil {
		next.Featured = *u.featured
	}
	if u.authorName != nil {
		next.AuthorName = *u.authorName
	}
	if u.authorEmail != nil {
		next.AuthorEmail = *u.authorEmail
	}
	if u.seoTitleSet {
		next.SEOTitle = u.seoTitle
	}
	if u.seoDescSet {
		next.SEODescription = u.seoDesc
	}
}

// CreatePost creates a post from a full-resource payload. It shares the
// field validators and the invariant checks with the patch path, but every
// required field must be present rather than sparse.
func (s *postService) CreatePost(ctx context.Context, req *services.CreatePostRequest) (*models.Post, error) {
	var errs errorList

	title, _ := requiredString(&errs, "title", req.Title)
	summary, _ := requiredString(&errs, "summary", req.Summary)
	body, _ := requiredText(&errs, "body_markdown", req.BodyMarkdown)

	var slug string
	if title != "" {
		slugInput := title
		if req.Slug.IsString && strings.TrimSpace(req.Slug.Value) != "" {
			slugInput = strings.TrimSpace(req.Slug.Value)
		}
		slug = textutil.Slugify(slugInput)
	}
	if slug == "" {
		errs.add("slug is required.")
	}

	authorName, _ := requiredString(&errs, "author_name", req.AuthorName)
	authorEmail, _ := requiredString(&errs, "author_email", req.AuthorEmail)

	status := models.StatusDraft
	if req.Status.Present {
		if v, ok := statusField(&errs, req.Status); ok {
			status = models.PostStatus(v)
		}
	}

	var tags []string
	if !req.Tags.Present || req.Tags.Invalid {
		errs.add("tags must be provided as an array or patch object.")
	} else if resolved, ok := req.Tags.Resolve(nil); ok {
		tags = resolved
		if len(tags) == 0 {
			errs.add("At least one tag is required.")
		}
	}

	var heroImageURL, heroImageAlt, seoTitle, seoDesc *string
	if req.HeroImageURL.Present {
		heroImageURL, _ = optionalString(&errs, "hero_image_url", req.HeroImageURL)
	}
	if req.HeroImageAlt.Present {
		heroImageAlt, _ = optionalString(&errs, "hero_image_alt", req.HeroImageAlt)
	}
	if req.SEOTitle.Present {
		seoTitle, _ = optionalString(&errs, "seo_title", req.SEOTitle)
	}
	if req.SEODesc.Present {
		seoDesc, _ = optionalString(&errs, "seo_description", req.SEODesc)
	}

	featured := false
	if req.Featured.Present {
		if v, ok := booleanField(&errs, "featured", req.Featured); ok {
			featured = v
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

	post := &models.Post{
		Slug:               slug,
		Title:              title,
		Summary:            summary,
		BodyMarkdown:       body,
		Status:             status,
		PublishedAt:        publishedAt,
		ReadingTimeMinutes: textutil.EstimateReadingTime(body),
		HeroImageURL:       heroImageURL,
		HeroImageAlt:       heroImageAlt,
		Featured:           featured,
		AuthorName:         authorName,
		AuthorEmail:        authorEmail,
		SEOTitle:           seoTitle,
		SEODescription:     seoDesc,
		TagNames:           tags,
		TagSlugs:           slugsFor(tags),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, &domain.StorageError{Op: "reload post " + post.ID, ReadBack: true, Err: err}
	}

	s.logger.Info("post created",
		"id", created.ID,
		"slug", created.Slug,
		"status", created.Status,
	)

	return created, nil
}

// GetPost retrieves a post by id.
func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPostBySlug retrieves a post by slug.
func (s *postService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// ListPosts returns one cursor-paginated page of posts.
func (s *postService) ListPosts(ctx context.Context, req *services.ListPostsRequest) (*services.PostPage, error) {
	filter := repositories.PostFilter{
		TagSlug: req.TagSlug,
		Query:   req.Query,
	}

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

	// Fetch one extra row to learn whether a next page exists.
	filter.Limit = limit + 1
	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &services.PostPage{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		last := page.Posts[len(page.Posts)-1]
		page.NextCursor = isotime.Format(last.UpdatedAt) + "|" + last.ID
	}
	return page, nil
}

// ListTags returns all tags with usage counts.
func (s *postService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}

func slugsFor(tags []string) []string {
	slugs := make([]string, len(tags))
	for i, tag := range tags {
		slugs[i] = textutil.Slugify(tag)
	}
	return slugs
}

func pageLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return defaultPageLimit, nil
	case limit < 0:
		return 0, &domain.ValidationError{Fields: []string{"limit must be a positive number."}}
	case limit > maxPageLimit:
		return maxPageLimit, nil
	default:
		return limit, nil
	}
}

func parseCursor(raw string) (*repositories.Cursor, error) {
	invalid := &domain.ValidationError{Fields: []string{`cursor must be "<updated_at>|<id>".`}}

	updatedAtRaw, id, found := strings.Cut(raw, "|")
	if !found || id == "" {
		return nil, invalid
	}
	updatedAt, err := isotime.Parse(updatedAtRaw)
	if err != nil {
		return nil, invalid
	}
	return &repositories.Cursor{UpdatedAt: updatedAt, ID: id}, nil
}
