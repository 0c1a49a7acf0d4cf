package api

import (
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskResponse is the canonical external representation of a task. It is
// identical for both storage backends: the identifier is always a string,
// whether the backend stores a 24-hex ObjectID or an integer key.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeleteTaskResponse is the body returned by a successful delete: a
// confirmation message plus the removed task's last state.
type DeleteTaskResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

// taskToResponse converts a domain.Task to its external representation.
// This is the only path from storage shapes to the wire, so backend
// differences cannot leak past it.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.Owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponse converts a slice of tasks, preserving order. A nil or
// empty slice becomes an empty JSON array, never null.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
