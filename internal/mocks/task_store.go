// Package mocks provides test doubles shared by handler and contract tests.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. By default it
// behaves as a conforming in-memory backend with integer identifiers; any
// method can be overridden with a custom Fn to inject failures.
type MockTaskStore struct {
	// Custom behavior functions
	ValidateIDFn         func(id string) error
	CreateFn             func(ctx context.Context, owner, title, description string) (*domain.Task, error)
	ListByOwnerFn        func(ctx context.Context, owner string) ([]*domain.Task, error)
	GetByIDAndOwnerFn    func(ctx context.Context, owner, id string) (*domain.Task, error)
	UpdateByIDAndOwnerFn func(ctx context.Context, owner, id, title, description string, completed bool) (*domain.Task, error)
	DeleteByIDAndOwnerFn func(ctx context.Context, owner, id string) (*domain.Task, error)

	mu     sync.Mutex
	nextID int64
	tasks  map[string]*domain.Task

	// Call tracking for verification
	Calls struct {
		ValidateID []string
		Create     []string // owners
		List       []string // owners
		Get        []string // owner + ":" + id
		Update     []string // owner + ":" + id
		Delete     []string // owner + ":" + id
	}
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[string]*domain.Task)}
}

// ValidateID implements store.TaskStore. The default policy mirrors the
// relational backend: positive base-10 integers.
func (m *MockTaskStore) ValidateID(id string) error {
	m.mu.Lock()
	m.Calls.ValidateID = append(m.Calls.ValidateID, id)
	m.mu.Unlock()

	if m.ValidateIDFn != nil {
		return m.ValidateIDFn(id)
	}

	if id == "" || id[0] == '+' || id[0] == '-' {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return nil
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(
	ctx context.Context,
	owner, title, description string,
) (*domain.Task, error) {
	m.mu.Lock()
	m.Calls.Create = append(m.Calls.Create, owner)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, owner, title, description)
	}

	task, err := domain.NewTask(owner, title, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	task.ID = strconv.FormatInt(m.nextID, 10)
	stored := *task
	m.tasks[task.ID] = &stored
	return task, nil
}

// ListByOwner implements store.TaskStore.
func (m *MockTaskStore) ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error) {
	m.mu.Lock()
	m.Calls.List = append(m.Calls.List, owner)
	m.mu.Unlock()

	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, owner)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := []*domain.Task{}
	for _, task := range m.tasks {
		if task.Owner == owner {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		// id tiebreak for same-instant rows, newest first
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

// GetByIDAndOwner implements store.TaskStore.
func (m *MockTaskStore) GetByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	m.mu.Lock()
	m.Calls.Get = append(m.Calls.Get, owner+":"+id)
	m.mu.Unlock()

	if m.GetByIDAndOwnerFn != nil {
		return m.GetByIDAndOwnerFn(ctx, owner, id)
	}
	if err := m.checkID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.Owner != owner {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// UpdateByIDAndOwner implements store.TaskStore.
func (m *MockTaskStore) UpdateByIDAndOwner(
	ctx context.Context,
	owner, id, title, description string,
	completed bool,
) (*domain.Task, error) {
	m.mu.Lock()
	m.Calls.Update = append(m.Calls.Update, owner+":"+id)
	m.mu.Unlock()

	if m.UpdateByIDAndOwnerFn != nil {
		return m.UpdateByIDAndOwnerFn(ctx, owner, id, title, description, completed)
	}
	if err := m.checkID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.Owner != owner {
		return nil, store.ErrTaskNotFound
	}
	if err := task.ApplyUpdate(title, description, completed); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	copied := *task
	return &copied, nil
}

// DeleteByIDAndOwner implements store.TaskStore.
func (m *MockTaskStore) DeleteByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	m.mu.Lock()
	m.Calls.Delete = append(m.Calls.Delete, owner+":"+id)
	m.mu.Unlock()

	if m.DeleteByIDAndOwnerFn != nil {
		return m.DeleteByIDAndOwnerFn(ctx, owner, id)
	}
	if err := m.checkID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.Owner != owner {
		return nil, store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return task, nil
}

// SeedTask inserts a task directly, bypassing Create, for test setup that
// needs a specific state (e.g. distinct timestamps).
func (m *MockTaskStore) SeedTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.ID == "" {
		m.nextID++
		task.ID = strconv.FormatInt(m.nextID, 10)
	}
	stored := *task
	m.tasks[task.ID] = &stored
}

// checkID mirrors the backend behavior of rejecting syntactically invalid
// identifiers even when the handler skipped the policy check.
func (m *MockTaskStore) checkID(id string) error {
	if id == "" || id[0] == '+' || id[0] == '-' {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return nil
}

// Advance rewrites a stored task's timestamps, useful for ordering tests.
func (m *MockTaskStore) Advance(id string, createdAt, updatedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[id]; ok {
		task.CreatedAt = createdAt
		task.UpdatedAt = updatedAt
	}
}
