package http

import (
	"net/http"

	"github.com/letterboxhq/letterbox-api/internal/adapters/middleware"
	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// NewsletterHandler serves the newsletter resource. List is public; every
// mutation runs behind BearerAuthMiddleware and is ownership-checked by the
// service against the persistent store.
type NewsletterHandler struct {
	newsletters *application.NewsletterService
	logger      domain.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(newsletters *application.NewsletterService, logger domain.Logger) *NewsletterHandler {
	return &NewsletterHandler{newsletters: newsletters, logger: logger}
}

// CreateNewsletterRequest is the expected payload for POST /newsletters.
type CreateNewsletterRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// UpdateNewsletterRequest is the expected payload for PUT /newsletters/{id}.
// Absent fields leave the record unchanged.
type UpdateNewsletterRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// List handles GET /newsletters.
func (h *NewsletterHandler) List(w http.ResponseWriter, r *http.Request) {
	data, origin, err := h.newsletters.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Cache: origin, Data: data})
}

// Create handles POST /newsletters.
func (h *NewsletterHandler) Create(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.SubjectID(r.Context())
	if !ok {
		domain.NewErrorResponse(domain.ErrUnauthenticated, "Authorization token is required", "").WriteJSON(w, http.StatusUnauthorized)
		return
	}

	var req CreateNewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.Description == "" {
		domain.NewErrorResponse(domain.ErrValidation, "Title and description are required", "").WriteJSON(w, http.StatusBadRequest)
		return
	}

	newsletter, err := h.newsletters.Create(r.Context(), subjectID, application.CreateNewsletterInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newsletter)
}

// Update handles PUT /newsletters/{id}.
func (h *NewsletterHandler) Update(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.SubjectID(r.Context())
	if !ok {
		domain.NewErrorResponse(domain.ErrUnauthenticated, "Authorization token is required", "").WriteJSON(w, http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateNewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	newsletter, err := h.newsletters.Update(r.Context(), id, subjectID, application.UpdateNewsletterInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newsletter)
}

// Delete handles DELETE /newsletters/{id}.
func (h *NewsletterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.SubjectID(r.Context())
	if !ok {
		domain.NewErrorResponse(domain.ErrUnauthenticated, "Authorization token is required", "").WriteJSON(w, http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.newsletters.Delete(r.Context(), id, subjectID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
