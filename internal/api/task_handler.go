package api

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CreateTaskRequest represents the request body for creating a new task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest represents the request body for replacing a task.
// Completed is typed as any because the contract accepts whatever JSON
// scalar the client sends and coerces it truthy/falsy; only absence or
// null is rejected.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   any     `json:"completed"`
}

// TaskHandler handles task-related HTTP requests.
//
// Every method follows the same chain: owner identity from the request
// context, identifier policy check, input validation, one owner-scoped
// store call, normalization. The active store was chosen at startup;
// nothing in this layer can tell which backend is behind it.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner identity not found")
		return
	}

	tasks, err := h.taskStore.ListByOwner(r.Context(), owner)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner identity not found")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.taskStore.ValidateID(id); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidTaskID)
		return
	}

	task, err := h.taskStore.GetByIDAndOwner(r.Context(), owner, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner identity not found")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if msg, ok := validateTitle(req.Title); !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msg)
		return
	}

	task, err := h.taskStore.Create(r.Context(), owner, req.Title, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests. Update semantics are full
// replacement of title, description, and completed; there is no partial
// patch.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner identity not found")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.taskStore.ValidateID(id); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidTaskID)
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	if msg, ok := validateTitle(title); !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msg)
		return
	}

	if req.Completed == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgCompletedRequired)
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	task, err := h.taskStore.UpdateByIDAndOwner(
		r.Context(), owner, id, title, description, coerceBool(req.Completed))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner identity not found")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.taskStore.ValidateID(id); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidTaskID)
		return
	}

	task, err := h.taskStore.DeleteByIDAndOwner(r.Context(), owner, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteTaskResponse{
		Message: "Task deleted successfully",
		Task:    taskToResponse(task),
	})
}

// validateTitle applies the title rules shared by create and update: present,
// not blank after trimming, at most 255 characters. Returns the stable error
// message when validation fails.
func validateTitle(title string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		return msgTitleRequired, false
	}
	if utf8.RuneCountInString(strings.TrimSpace(title)) > domain.MaxTitleLength {
		return msgTitleTooLong, false
	}
	return "", true
}

// coerceBool reduces an arbitrary decoded JSON value to a boolean using
// truthy/falsy semantics: false, 0, and "" are false; everything else is
// true. Callers reject nil before calling.
func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		// Arrays and objects are truthy
		return true
	}
}
