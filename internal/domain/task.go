package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 255

// Common validation errors for Task
var (
	ErrEmptyTaskOwner = errors.New("task owner cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrTitleTooLong   = errors.New("task title cannot exceed 255 characters")
)

// Task represents a to-do item belonging to exactly one user.
// ID carries the backend-native identifier in its normalized string
// form (24-hex ObjectID or decimal integer); callers never interpret
// it beyond validation and equality.
type Task struct {
	ID          string    `json:"id"`
	Owner       string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task for the given owner with the given title and
// description. The title is trimmed, the description defaults to empty, and
// both timestamps are set to the same instant. The ID is left empty: the
// store assigns it on create.
// Returns an error if validation fails.
func NewTask(owner, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Owner:       owner,
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Owner == "" {
		return ErrEmptyTaskOwner
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	return nil
}

// ApplyUpdate replaces the task's mutable fields with the given values and
// refreshes UpdatedAt. Update semantics are full replacement: there is no
// partial patch. Returns an error if the resulting task is invalid.
func (t *Task) ApplyUpdate(title, description string, completed bool) error {
	title = strings.TrimSpace(title)

	updated := *t
	updated.Title = title
	updated.Description = description
	if err := updated.Validate(); err != nil {
		return err
	}

	t.Title = title
	t.Description = description
	t.Completed = completed
	t.UpdatedAt = time.Now().UTC()
	return nil
}
