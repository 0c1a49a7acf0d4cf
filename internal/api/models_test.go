package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

func TestTaskToResponse(t *testing.T) {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:          "64a1f0c2e4b0a1b2c3d4e5f6",
		Owner:       "user-1",
		Title:       "Buy milk",
		Description: "2% please",
		Completed:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resp := taskToResponse(task)

	assert.Equal(t, task.ID, resp.ID)
	assert.Equal(t, task.Owner, resp.UserID)
	assert.Equal(t, task.Title, resp.Title)
	assert.Equal(t, task.Description, resp.Description)
	assert.True(t, resp.Completed)
	assert.Equal(t, now, resp.CreatedAt)
}

func TestTaskResponseIDIsJSONString(t *testing.T) {
	// Both backends serialize the id as a string, even when the
	// underlying key is numeric.
	for _, id := range []string{"42", "64a1f0c2e4b0a1b2c3d4e5f6"} {
		data, err := json.Marshal(taskToResponse(&domain.Task{ID: id}))
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, `"`+id+`"`, string(raw["id"]))
	}
}

func TestTasksToResponseNeverNull(t *testing.T) {
	data, err := json.Marshal(tasksToResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(tasksToResponse([]*domain.Task{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestTasksToResponsePreservesOrder(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "3", Title: "newest"},
		{ID: "2", Title: "middle"},
		{ID: "1", Title: "oldest"},
	}

	responses := tasksToResponse(tasks)
	require.Len(t, responses, 3)
	assert.Equal(t, "3", responses[0].ID)
	assert.Equal(t, "1", responses[2].ID)
}
