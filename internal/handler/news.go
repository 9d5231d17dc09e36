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

// NewsHandler handles news item HTTP requests
type NewsHandler struct {
	service services.NewsService
	logger  *slog.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(service services.NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		service: service,
		logger:  logger,
	}
}

type newsResponse struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Title        string  `json:"title"`
	BodyMarkdown string  `json:"body_markdown"`
	Status       string  `json:"status"`
	PublishedAt  *string `json:"published_at"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func serializeNews(n *models.NewsItem) newsResponse {
	return newsResponse{
		ID:           n.ID,
		Category:     n.Category,
		Title:        n.Title,
		BodyMarkdown: n.BodyMarkdown,
		Status:       string(n.Status),
		PublishedAt:  isotime.FormatPtr(n.PublishedAt),
		CreatedAt:    isotime.Format(n.CreatedAt),
		UpdatedAt:    isotime.Format(n.UpdatedAt),
	}
}

// Create creates a news item
// POST /api/codex/v1/news
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateNewsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.CreateNews(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, serializeNews(item))
}

// Get retrieves a news item by id
// GET /api/codex/v1/news/{id}
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetNews(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, serializeNews(item))
}

// Patch applies a sparse patch to a news item
// PATCH /api/codex/v1/news/{id}
func (h *NewsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateNewsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.UpdateNews(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, serializeNews(item))
}

// List returns a page of news items
// GET /api/codex/v1/news
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := services.ListNewsRequest{
		Status: q.Get("status"),
		Query:  q.Get("q"),
		Cursor: q.Get("cursor"),
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

	page, err := h.service.ListNews(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	items := make([]newsResponse, len(page.Items))
	for i := range page.Items {
		items[i] = serializeNews(&page.Items[i])
	}

	resp := map[string]interface{}{
		"items":       items,
		"next_cursor": nil,
	}
	if page.NextCursor != "" {
		resp["next_cursor"] = page.NextCursor
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
