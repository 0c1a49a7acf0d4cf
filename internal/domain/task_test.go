package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		owner       string
		title       string
		description string
		wantErr     error
		check       func(t *testing.T, task *Task)
	}{
		{
			name:        "valid_task",
			owner:       "user-1",
			title:       "Buy milk",
			description: "",
			check: func(t *testing.T, task *Task) {
				assert.Equal(t, "user-1", task.Owner)
				assert.Equal(t, "Buy milk", task.Title)
				assert.Empty(t, task.Description)
				assert.False(t, task.Completed)
				assert.Empty(t, task.ID, "store assigns the ID, not the constructor")
				assert.Equal(t, task.CreatedAt, task.UpdatedAt)
				assert.WithinDuration(t, time.Now().UTC(), task.CreatedAt, time.Minute)
			},
		},
		{
			name:  "title_is_trimmed",
			owner: "user-1",
			title: "  Buy milk  ",
			check: func(t *testing.T, task *Task) {
				assert.Equal(t, "Buy milk", task.Title)
			},
		},
		{
			name:    "empty_owner",
			owner:   "",
			title:   "Buy milk",
			wantErr: ErrEmptyTaskOwner,
		},
		{
			name:    "empty_title",
			owner:   "user-1",
			title:   "",
			wantErr: ErrEmptyTaskTitle,
		},
		{
			name:    "whitespace_title",
			owner:   "user-1",
			title:   "   \t ",
			wantErr: ErrEmptyTaskTitle,
		},
		{
			name:    "title_too_long",
			owner:   "user-1",
			title:   strings.Repeat("x", MaxTitleLength+1),
			wantErr: ErrTitleTooLong,
		},
		{
			name:  "title_at_max_length",
			owner: "user-1",
			title: strings.Repeat("x", MaxTitleLength),
			check: func(t *testing.T, task *Task) {
				assert.Len(t, task.Title, MaxTitleLength)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.owner, tt.title, tt.description)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, task)
			if tt.check != nil {
				tt.check(t, task)
			}
		})
	}
}

func TestTask_ApplyUpdate(t *testing.T) {
	t.Run("replaces_all_mutable_fields", func(t *testing.T) {
		task, err := NewTask("user-1", "Buy milk", "from the corner shop")
		require.NoError(t, err)

		createdAt := task.CreatedAt

		err = task.ApplyUpdate("Buy oat milk", "", true)
		require.NoError(t, err)

		assert.Equal(t, "Buy oat milk", task.Title)
		assert.Empty(t, task.Description, "description is replaced, not merged")
		assert.True(t, task.Completed)
		assert.Equal(t, createdAt, task.CreatedAt, "created_at never changes")
		assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
	})

	t.Run("refreshes_updated_at_monotonically", func(t *testing.T) {
		task, err := NewTask("user-1", "Buy milk", "")
		require.NoError(t, err)

		require.NoError(t, task.ApplyUpdate("Buy milk", "", false))
		first := task.UpdatedAt

		require.NoError(t, task.ApplyUpdate("Buy milk", "", false))
		second := task.UpdatedAt

		assert.False(t, second.Before(first), "updated_at must be non-decreasing")
	})

	t.Run("rejects_blank_title_and_leaves_task_unchanged", func(t *testing.T) {
		task, err := NewTask("user-1", "Buy milk", "")
		require.NoError(t, err)
		before := *task

		err = task.ApplyUpdate("   ", "changed", true)
		assert.ErrorIs(t, err, ErrEmptyTaskTitle)
		assert.Equal(t, before, *task, "failed update must not mutate the task")
	})

	t.Run("rejects_oversized_title", func(t *testing.T) {
		task, err := NewTask("user-1", "Buy milk", "")
		require.NoError(t, err)

		err = task.ApplyUpdate(strings.Repeat("x", MaxTitleLength+1), "", false)
		assert.ErrorIs(t, err, ErrTitleTooLong)
	})

	t.Run("owner_is_not_touched", func(t *testing.T) {
		task, err := NewTask("user-1", "Buy milk", "")
		require.NoError(t, err)

		require.NoError(t, task.ApplyUpdate("Done", "", true))
		assert.Equal(t, "user-1", task.Owner)
	})
}

func TestTask_Validate(t *testing.T) {
	valid := Task{
		ID:    "507f1f77bcf86cd799439011",
		Owner: "user-1",
		Title: "Buy milk",
	}
	assert.NoError(t, valid.Validate())

	noOwner := valid
	noOwner.Owner = ""
	assert.ErrorIs(t, noOwner.Validate(), ErrEmptyTaskOwner)

	blankTitle := valid
	blankTitle.Title = " "
	assert.ErrorIs(t, blankTitle.Validate(), ErrEmptyTaskTitle)
}
