package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// PostgreSQL error codes
const (
	pgForeignKeyViolationCode = "23503"
	pgCheckViolationCode      = "23514"
)

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database as the storage backend.
//
// Identifiers are auto-incrementing int64 primary keys, exposed to callers
// in their decimal string form. Ownership scoping happens inside every
// statement (WHERE id = $n AND user_id = $m); updates and deletes are single
// atomic statements with RETURNING, so there is no window between an
// existence check and the write.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ValidateID implements store.TaskStore.ValidateID.
// A relational task identifier is a sign-free base-10 integer that fits in
// an int64 and is positive. Everything else is rejected before any query.
func (s *PostgresTaskStore) ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty identifier", store.ErrInvalidID)
	}
	// strconv accepts a leading sign; the external form does not.
	if id[0] == '+' || id[0] == '-' {
		return fmt.Errorf("%w: %q is not a valid task identifier", store.ErrInvalidID, id)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q is not a valid task identifier", store.ErrInvalidID, id)
	}
	return nil
}

// Create implements store.TaskStore.Create.
// The caller has already validated the title; the table's CHECK constraint
// only guards against writes that bypass the service layer.
func (s *PostgresTaskStore) Create(
	ctx context.Context,
	owner, title, description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(owner, title, description)
	if err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	var id int64
	err = s.db.QueryRowContext(
		ctx,
		query,
		task.Owner,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
	).Scan(&id)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			log.Warn("constraint violation during task creation",
				slog.String("error", err.Error()),
				slog.String("user_id", owner))
			return nil, mapped
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}

	task.ID = strconv.FormatInt(id, 10)

	log.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", owner))
	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
// Tasks are ordered by creation time descending; the id tiebreak keeps the
// order stable for rows created in the same instant.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("user_id", owner))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("task row iteration failed",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}

	return tasks, nil
}

// GetByIDAndOwner implements store.TaskStore.GetByIDAndOwner.
// Returns store.ErrTaskNotFound whether the task is absent or belongs to a
// different owner; the two cases are indistinguishable by design.
func (s *PostgresTaskStore) GetByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	return task, nil
}

// UpdateByIDAndOwner implements store.TaskStore.UpdateByIDAndOwner.
// The update is one atomic statement scoped by both id and owner, returning
// the affected row; a row owned by someone else is never read or written.
func (s *PostgresTaskStore) UpdateByIDAndOwner(
	ctx context.Context,
	owner, id, title, description string,
	completed bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	title, err = normalizeUpdateTitle(owner, title)
	if err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		title,
		description,
		completed,
		time.Now().UTC(),
		taskID,
		owner,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	log.Info("task updated",
		slog.String("task_id", task.ID),
		slog.String("user_id", owner))
	return task, nil
}

// DeleteByIDAndOwner implements store.TaskStore.DeleteByIDAndOwner.
// One atomic owner-scoped DELETE ... RETURNING; the returned task is the
// record's last state before removal.
func (s *PostgresTaskStore) DeleteByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for delete",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	log.Info("task deleted",
		slog.String("task_id", task.ID),
		slog.String("user_id", owner))
	return task, nil
}

// parseID converts an already-validated external identifier to its int64
// column value. Repository methods call it so a handler that skipped
// ValidateID still gets ErrInvalidID instead of a backend error.
func (s *PostgresTaskStore) parseID(id string) (int64, error) {
	if err := s.ValidateID(id); err != nil {
		return 0, err
	}
	return strconv.ParseInt(id, 10, 64)
}

// normalizeUpdateTitle trims and validates the replacement title the same
// way task creation does, so an update can never persist whitespace that a
// create would have stripped. Returns the trimmed title.
func normalizeUpdateTitle(owner, title string) (string, error) {
	title = strings.TrimSpace(title)
	candidate := domain.Task{Owner: owner, Title: title}
	if err := candidate.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return title, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row into a domain.Task, converting the int64
// primary key to its external decimal string form.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		id   int64
		task domain.Task
	)
	err := row.Scan(
		&id,
		&task.Owner,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.ID = strconv.FormatInt(id, 10)
	return &task, nil
}

// mapConstraintError translates PostgreSQL constraint violations into
// store.ErrInvalidEntity. Returns nil for anything else so the caller can
// fall through to generic handling.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolationCode, pgCheckViolationCode:
			return fmt.Errorf("%w: %s", store.ErrInvalidEntity, pgErr.Message)
		}
	}
	return nil
}
