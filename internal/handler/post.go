package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
	"inkwell/internal/isotime"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	service services.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service services.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

// postResponse is the wire shape of a post. Timestamps are canonical ISO
// strings so updated_at round-trips byte-for-byte as the version token.
type postResponse struct {
	ID                 string   `json:"id"`
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	Summary            string   `json:"summary"`
	BodyMarkdown       string   `json:"body_markdown"`
	Status             string   `json:"status"`
	PublishedAt        *string  `json:"published_at"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	HeroImageURL       *string  `json:"hero_image_url"`
	HeroImageAlt       *string  `json:"hero_image_alt"`
	Featured           bool     `json:"featured"`
	AuthorName         string   `json:"author_name"`
	AuthorEmail        string   `json:"author_email"`
	SEOTitle           *string  `json:"seo_title"`
	SEODescription     *string  `json:"seo_description"`
	Tags               []string `json:"tags"`
	TagSlugs           []string `json:"tag_slugs"`
}

func serializePost(p *models.Post) postResponse {
	tags := p.TagNames
	if tags == nil {
		tags = []string{}
	}
	slugs := p.TagSlugs
	if slugs == nil {
		slugs = []string{}
	}
	return postResponse{
		ID:                 p.ID,
		Slug:               p.Slug,
		Title:              p.Title,
		Summary:            p.Summary,
		BodyMarkdown:       p.BodyMarkdown,
		Status:             string(p.Status),
		PublishedAt:        isotime.FormatPtr(p.PublishedAt),
		CreatedAt:          isotime.Format(p.CreatedAt),
		UpdatedAt:          isotime.Format(p.UpdatedAt),
		ReadingTimeMinutes: p.ReadingTimeMinutes,
		HeroImageURL:       p.HeroImageURL,
		HeroImageAlt:       p.HeroImageAlt,
		Featured:           p.Featured,
		AuthorName:         p.AuthorName,
		AuthorEmail:        p.AuthorEmail,
		SEOTitle:           p.SEOTitle,
		SEODescription:     p.SEODescription,
		Tags:               tags,
		TagSlugs:           slugs,
	}
}

// Create creates a post
// POST /api/codex/v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, serializePost(post))
}

// Get retrieves a post by id
// GET /api/codex/v1/posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, serializePost(post))
}

// GetBySlug retrieves a post by slug
// GET /api/codex/v1/posts/by-slug/{slug}
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, serializePost(post))
}

// Patch applies a sparse patch to a post
// PATCH /api/codex/v1/posts/{id}
func (h *PostHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req services.UpdatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.UpdatePost(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, serializePost(post))
}

// List returns a page of posts
// GET /api/codex/v1/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := services.ListPostsRequest{
		Status:  q.Get("status"),
		TagSlug: q.Get("tag"),
		Query:   q.Get("q"),
		Cursor:  q.Get("cursor"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "Validation failed.", map[string]interface{}{
				"errors": []string{"limit must be a positive number."},
			})
			return
		}
		req.Limit = limit
	}

	page, err := h.service.ListPosts(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	posts := make([]postResponse, len(page.Posts))
	for i := range page.Posts {
		posts[i] = serializePost(&page.Posts[i])
	}

	resp := map[string]interface{}{
		"posts":       posts,
		"next_cursor": nil,
	}
	if page.NextCursor != "" {
		resp["next_cursor"] = page.NextCursor
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Tags lists every tag with its usage count
// GET /api/codex/v1/tags
func (h *PostHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
