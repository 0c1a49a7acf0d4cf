package api

import (
	"errors"
	"net/http"

	"github.com/tasktrack/tasktrack-api/internal/store"
)

// Stable client-facing error messages. These are part of the external
// contract and must not vary between storage backends.
const (
	msgInvalidTaskID     = "Invalid task ID format"
	msgTaskNotFound      = "Task not found"
	msgTitleRequired     = "Title is required"
	msgTitleTooLong      = "Title cannot exceed 255 characters"
	msgCompletedRequired = "Completed status is required"
	msgInvalidBody       = "Invalid request format"
	msgServerError       = "Server error"
)

// MapErrorToStatusCode maps store errors to HTTP status codes. Anything
// unrecognized is an internal failure.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return http.StatusBadRequest
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the stable, user-facing message for a store
// error. Internal error detail never reaches the client; callers log it
// separately.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return msgInvalidTaskID
	case store.IsNotFoundError(err):
		return msgTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"
	default:
		return msgServerError
	}
}
