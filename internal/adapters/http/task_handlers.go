package http

import (
	"net/http"

	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// TaskHandler serves the public task resource.
type TaskHandler struct {
	tasks  *application.TaskService
	logger domain.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *application.TaskService, logger domain.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// CreateTaskRequest is the expected payload for POST /tasks.
type CreateTaskRequest struct {
	Description string `json:"description"`
}

// UpdateTaskRequest is the expected payload for PUT /tasks/{id}.
// Absent fields leave the record unchanged.
type UpdateTaskRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	data, origin, err := h.tasks.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Cache: origin, Data: data})
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Description == "" {
		domain.NewErrorResponse(domain.ErrValidation, "Description is required", "").WriteJSON(w, http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Create(r.Context(), req.Description)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), id, application.UpdateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
