package store

import (
	"context"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Two conforming implementations exist: a relational store over PostgreSQL
// (internal/platform/postgres) and a document store over MongoDB
// (internal/platform/mongodb). A deployment runs exactly one, chosen at
// startup; callers must not assume anything about the identifier shape
// beyond what ValidateID accepts.
//
// Every read and write is scoped by the owner: the owner is part of each
// query's filter, never a post-fetch check. A task belonging to a different
// owner is therefore indistinguishable from an absent task — both surface
// as ErrTaskNotFound.
type TaskStore interface {
	// ValidateID reports whether the identifier string is syntactically
	// possible for this backend (24 hex characters for the document store,
	// a positive base-10 integer for the relational store). Returns
	// ErrInvalidID otherwise. Callers use this to reject malformed
	// identifiers before any query is issued.
	ValidateID(id string) error

	// Create persists a new task for the owner with a freshly assigned
	// identifier, completed=false, and both timestamps set to creation
	// time. The title must already be validated; the description may be
	// empty. Returns the stored task with its identifier populated.
	Create(ctx context.Context, owner, title, description string) (*domain.Task, error)

	// ListByOwner returns all of the owner's tasks ordered by creation
	// time, newest first. Returns an empty slice, never nil, when the
	// owner has no tasks.
	ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error)

	// GetByIDAndOwner retrieves a single task by identifier, scoped to the
	// owner. Returns ErrTaskNotFound if no such task exists for this owner.
	GetByIDAndOwner(ctx context.Context, owner, id string) (*domain.Task, error)

	// UpdateByIDAndOwner replaces the task's title, description, and
	// completed flag in a single owner-scoped statement and refreshes
	// UpdatedAt. There is no partial update: all three fields are written.
	// Returns the task's new state, or ErrTaskNotFound if no such task
	// exists for this owner.
	UpdateByIDAndOwner(
		ctx context.Context,
		owner, id, title, description string,
		completed bool,
	) (*domain.Task, error)

	// DeleteByIDAndOwner removes the task in a single owner-scoped
	// statement and returns its last state, or ErrTaskNotFound if no such
	// task exists for this owner.
	DeleteByIDAndOwner(ctx context.Context, owner, id string) (*domain.Task, error)
}
